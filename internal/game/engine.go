package game

// Sign is a player's marker on the board.
type Sign string

const (
	SignX    Sign = "X"
	SignO    Sign = "O"
	SignNone Sign = ""
)

// Opponent returns the complementary sign.
func (s Sign) Opponent() Sign {
	if s == SignX {
		return SignO
	}
	return SignX
}

// BoardSize is the number of cells on the grid.
const BoardSize = 9

// lines enumerates every winning triple: 3 rows, 3 columns, 2 diagonals.
// Evaluate checks them in this exact order and the first match wins.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Result is the outcome of evaluating a board.
type Result struct {
	Winner      Sign
	WinningLine [3]int
	Draw        bool
}

// Over reports whether the game has ended.
func (r Result) Over() bool {
	return r.Winner != SignNone || r.Draw
}

// Evaluate inspects the 9 cells for a winner or a draw. It is pure: same
// cells in, same result out, no side effects.
func Evaluate(cells [BoardSize]Sign) Result {
	for _, line := range lines {
		a, b, c := line[0], line[1], line[2]
		if cells[a] != SignNone && cells[a] == cells[b] && cells[b] == cells[c] {
			return Result{Winner: cells[a], WinningLine: line}
		}
	}

	for _, cell := range cells {
		if cell == SignNone {
			return Result{} // still in progress
		}
	}

	return Result{Draw: true}
}
