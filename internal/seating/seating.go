// Package seating hands out seat codes from a flight's finite pool.
//
// A code is a row letter followed by a seat number, e.g. "C14". The pool of a
// flight with N seats holds the first N codes in the order A1, B1, ... F1, A2, ...
// so a 180-seat aircraft with letters ABCDEF spans numbers 1 to 30.
package seating

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
)

const DefaultLetters = "ABCDEF"

var ErrPoolExhausted = errors.New("no free seats left in pool")

type Allocator struct {
	letters []byte
	intN    func(n int) int
}

type Option func(*Allocator)

// WithRandom replaces the source used to pick free seats.
func WithRandom(intN func(n int) int) Option {
	return func(a *Allocator) {
		a.intN = intN
	}
}

func NewAllocator(letters string, opts ...Option) (*Allocator, error) {
	if letters == "" {
		letters = DefaultLetters
	}
	seen := make(map[byte]struct{}, len(letters))
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c < 'A' || c > 'Z' {
			return nil, fmt.Errorf("seat letter %q must be an upper-case ASCII letter", c)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("seat letter %q repeated", c)
		}
		seen[c] = struct{}{}
	}
	a := &Allocator{letters: []byte(letters), intN: rand.IntN}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Pool lists every seat code of a flight with totalSeats seats.
func (a *Allocator) Pool(totalSeats int) []string {
	pool := make([]string, 0, max(totalSeats, 0))
	for i := 0; i < totalSeats; i++ {
		pool = append(pool, a.code(i))
	}
	return pool
}

func (a *Allocator) code(i int) string {
	row := i / len(a.letters)
	return string(a.letters[i%len(a.letters)]) + strconv.Itoa(row+1)
}

// Allocate picks n distinct codes that are in the pool and not in taken.
func (a *Allocator) Allocate(totalSeats int, taken []string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}

	free := make([]string, 0, totalSeats)
	for _, s := range a.Pool(totalSeats) {
		if _, ok := used[s]; !ok {
			free = append(free, s)
		}
	}
	if len(free) < n {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrPoolExhausted, n, len(free))
	}

	// partial Fisher-Yates: the first n slots end up a uniform sample
	for i := 0; i < n; i++ {
		j := i + a.intN(len(free)-i)
		free[i], free[j] = free[j], free[i]
	}
	return free[:n:n], nil
}
