// Package reference generates human-shareable booking references.
//
// A reference reads BK + base36 milliseconds + random suffix, for example
// BKMGX3K2Q1H7T4ZP9C. The time part keeps references roughly sortable for
// support lookups; uniqueness is still enforced by the database.
package reference

import (
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v3"
)

const (
	Prefix = "BK"
	// alphabet leaves out 0/O and 1/I so references survive being read over the phone
	alphabet  = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	suffixLen = 8
)

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) Next() string {
	ts := strings.ToUpper(strconv.FormatInt(g.now().UnixMilli(), 36))
	id := shortuuid.NewWithAlphabet(alphabet)
	return Prefix + ts + id[len(id)-suffixLen:]
}

// TransactionID mirrors the payment-stub identifier attached to each booking.
func TransactionID(now time.Time) string {
	return "TXN" + strconv.FormatInt(now.UnixMilli(), 10)
}
