package tictactoe

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Evaluation is the result of a search from one position.
type Evaluation struct {
	Action Action `json:"action"`
	// Found is false when the board is already terminal and there is no move to make.
	Found  bool   `json:"found"`
	// Value is the minimax value from First's point of view: +1, 0 or -1.
	Value  int    `json:"value"`
	Nodes  int    `json:"nodes"`
}

type Option func(*Searcher)

// WithParallelRoot - evaluates the root actions concurrently.
func WithParallelRoot() Option {
	return func(s *Searcher) {
		s.parallelRoot = true
	}
}

// WithMemo - caches subtree values for the duration of one search.
func WithMemo() Option {
	return func(s *Searcher) {
		s.memo = true
	}
}

// Searcher runs exhaustive minimax. The zero value searches sequentially without a memo.
type Searcher struct {
	parallelRoot bool
	memo         bool
}

func NewSearcher(opts ...Option) *Searcher {
	searcher := &Searcher{}
	for _, opt := range opts {
		opt(searcher)
	}

	return searcher
}

// BestAction - returns the optimal action for the player to move; ok is false on a terminal board.
func BestAction(board Board) (Action, bool, error) {
	eval, err := NewSearcher().Evaluate(board)
	if err != nil {
		return Action{}, false, err
	}

	return eval.Action, eval.Found, nil
}

// Evaluate - searches the whole game tree below the board.
// First maximises and Second minimises; ties go to the earliest action in row-major order.
func (that *Searcher) Evaluate(board Board) (Evaluation, error) {
	if err := board.Validate(); err != nil {
		return Evaluation{}, fmt.Errorf("cannot search board: %w", err)
	}

	if board.IsTerminal() {
		return Evaluation{Value: board.score(), Nodes: 1}, nil
	}

	player := board.PlayerToMove()
	actions := board.LegalActions()

	values := make([]int, len(actions))
	nodes := make([]int, len(actions))

	evalRoot := func(i int) {
		br := that.newBranch()
		child := board.place(actions[i])

		if player == First {
			values[i] = br.minValue(child)
		} else {
			values[i] = br.maxValue(child)
		}

		nodes[i] = br.nodes
	}

	if that.parallelRoot {
		g := errgroup.Group{}
		for i := range actions {
			g.Go(func() error {
				evalRoot(i)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return Evaluation{}, fmt.Errorf("root search failed: %w", err)
		}
	} else {
		for i := range actions {
			evalRoot(i)
		}
	}

	best := 0
	for i := 1; i < len(actions); i++ {
		if player == First && values[i] > values[best] || player == Second && values[i] < values[best] {
			best = i
		}
	}

	eval := Evaluation{
		Action: actions[best],
		Found:  true,
		Value:  values[best],
		Nodes:  1,
	}
	for _, n := range nodes {
		eval.Nodes += n
	}

	return eval, nil
}

// branch holds the per-goroutine state of one root subtree.
type branch struct {
	memo  map[uint32]int
	nodes int
}

func (that *Searcher) newBranch() *branch {
	br := &branch{}
	if that.memo {
		br.memo = make(map[uint32]int)
	}

	return br
}

// The player to move is fixed by the board, so one memo serves both maxValue and minValue.
func (that *branch) lookup(board Board) (int, bool) {
	if that.memo == nil {
		return 0, false
	}

	value, ok := that.memo[board.Key()]

	return value, ok
}

func (that *branch) store(board Board, value int) {
	if that.memo != nil {
		that.memo[board.Key()] = value
	}
}

func (that *branch) maxValue(board Board) int {
	that.nodes++

	if board.IsTerminal() {
		return board.score()
	}

	if value, ok := that.lookup(board); ok {
		return value
	}

	value := -2
	for _, action := range board.LegalActions() {
		value = max(value, that.minValue(board.place(action)))
	}

	that.store(board, value)

	return value
}

func (that *branch) minValue(board Board) int {
	that.nodes++

	if board.IsTerminal() {
		return board.score()
	}

	if value, ok := that.lookup(board); ok {
		return value
	}

	value := 2
	for _, action := range board.LegalActions() {
		value = min(value, that.maxValue(board.place(action)))
	}

	that.store(board, value)

	return value
}
