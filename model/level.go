// SPDX-License-Identifier: MIT

package model

import "fmt"

// Level is a binary outcome level. Every outcome-family variable (Y, Y*1, Y*2)
// is coded with the same two levels; Level2 is the reference category.
type Level int

const (
	// Level1 is the free (modelled) level of every logit mechanism.
	Level1 Level = 1
	// Level2 is the reference level; its linear predictor is fixed at zero.
	Level2 Level = 2
)

// Levels lists both levels in index order.
var Levels = [2]Level{Level1, Level2}

// Index returns the zero-based array index of l (0 for Level1, 1 for Level2).
func (l Level) Index() int { return int(l) - 1 }

// Valid reports whether l is Level1 or Level2.
func (l Level) Valid() bool { return l == Level1 || l == Level2 }

// Other returns the opposite level.
func (l Level) Other() Level { return 3 - l }

// String implements fmt.Stringer.
func (l Level) String() string { return fmt.Sprintf("%d", int(l)) }

// LevelAt converts a zero-based index back to a Level.
func LevelAt(idx int) Level { return Level(idx + 1) }

// validateLevels checks that every entry of ys is a valid level.
func validateLevels(name string, ys []Level) error {
	for i, y := range ys {
		if !y.Valid() {
			return fmt.Errorf("%s[%d]=%d: %w", name, i, int(y), ErrInvalidOutcome)
		}
	}

	return nil
}
