package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playgrid/backend/internal/game"
)

func boardFrom(s string) [game.BoardSize]game.Sign {
	var cells [game.BoardSize]game.Sign
	for i := 0; i < game.BoardSize; i++ {
		switch s[i] {
		case 'X':
			cells[i] = game.SignX
		case 'O':
			cells[i] = game.SignO
		default:
			cells[i] = game.SignNone
		}
	}
	return cells
}

func TestEvaluate_WinningLines(t *testing.T) {
	tests := []struct {
		name string
		line [3]int
	}{
		{"top row", [3]int{0, 1, 2}},
		{"middle row", [3]int{3, 4, 5}},
		{"bottom row", [3]int{6, 7, 8}},
		{"left column", [3]int{0, 3, 6}},
		{"middle column", [3]int{1, 4, 7}},
		{"right column", [3]int{2, 5, 8}},
		{"main diagonal", [3]int{0, 4, 8}},
		{"anti diagonal", [3]int{2, 4, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, sign := range []game.Sign{game.SignX, game.SignO} {
				var cells [game.BoardSize]game.Sign
				for _, i := range tt.line {
					cells[i] = sign
				}

				result := game.Evaluate(cells)
				require.Equal(t, sign, result.Winner)
				assert.Equal(t, tt.line, result.WinningLine)
				assert.False(t, result.Draw)
				assert.True(t, result.Over())
			}
		})
	}
}

func TestEvaluate_FirstMatchingLineWins(t *testing.T) {
	// Every cell X: multiple lines match, the first in the fixed order
	// (top row) must be reported.
	result := game.Evaluate(boardFrom("XXXXXXXXX"))
	assert.Equal(t, game.SignX, result.Winner)
	assert.Equal(t, [3]int{0, 1, 2}, result.WinningLine)
}

func TestEvaluate_Draw(t *testing.T) {
	result := game.Evaluate(boardFrom("XOXXOOOXX"))
	assert.True(t, result.Draw)
	assert.Equal(t, game.SignNone, result.Winner)
	assert.True(t, result.Over())
}

func TestEvaluate_InProgress(t *testing.T) {
	tests := []struct {
		name  string
		board string
	}{
		{"empty board", "---------"},
		{"single move", "----X----"},
		{"nearly full without winner", "XOXXOO-XX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := game.Evaluate(boardFrom(tt.board))
			assert.Equal(t, game.SignNone, result.Winner)
			assert.False(t, result.Draw)
			assert.False(t, result.Over())
		})
	}
}

func TestSign_Opponent(t *testing.T) {
	assert.Equal(t, game.SignO, game.SignX.Opponent())
	assert.Equal(t, game.SignX, game.SignO.Opponent())
}
