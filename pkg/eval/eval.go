package eval

import (
	"math"

	"github.com/rsarvar1a/hivemind/pkg/hive"
)

const (
	attackingKillspot    = 1.2
	minimumOpenKillspots = 2

	kDefense            = 40.0
	kMoveable           = 2.0
	kQueenNeighbourhood = 30.0
	kQueens             = 1.0
	kReserve            = 1.0
	kStacking           = 2.0
)

// BugValue gives a baseline value for a species. The queen value is high
// because it refers to moveable queens: a moveable queen neutralizes an
// opponent's tempo by escaping an attack.
func BugValue(bug hive.Bug) float64 {
	switch bug {
	case hive.Ant:
		return 7
	case hive.Beetle:
		return 6
	case hive.Grasshopper:
		return 3
	case hive.Ladybug:
		return 6
	case hive.Mosquito:
		return 8
	case hive.Pillbug:
		return 6
	case hive.Queen:
		return 12
	default:
		return 2
	}
}

// Evaluate returns a score for the board from the side-to-move's
// perspective, clamped inside the terminal bounds. Terminal states
// short-circuit to the win and loss bounds.
func Evaluate(b *hive.Board) Score {
	toMove := b.ToMove()

	switch b.State() {
	case hive.NotStarted, hive.Draw:
		return 0
	case hive.WhiteWins:
		if toMove == hive.White {
			return MinimumWin
		}
		return -MinimumWin
	case hive.BlackWins:
		if toMove == hive.Black {
			return MinimumWin
		}
		return -MinimumWin
	default:
		score := material(b) + queens(b) + reserve(b)
		clamped := Score(math.Floor(score))
		return min(max(clamped, -MinimumWin+1), MinimumWin-1)
	}
}

// material is the difference in board strength: the summed value of
// unpinned pieces, doubled when stacking, zeroed when already committed to
// the enemy queen.
func material(b *hive.Board) float64 {
	score := 0.0

	for _, hex := range b.Field().Hexes() {
		piece, ok := b.Top(hex)
		if !ok || b.IsPinned(piece) {
			continue
		}

		pieceScore := BugValue(piece.Kind)
		stacking := b.Stacked(piece)

		// A mosquito is worth its best possible neighbour.
		if piece.Kind == hive.Mosquito {
			if stacking {
				pieceScore = BugValue(hive.Beetle)
			} else {
				for _, n := range b.NeighbourPieces(hex) {
					if n.Kind == hive.Queen {
						continue
					}
					pieceScore = math.Max(pieceScore, BugValue(n.Kind))
				}
			}
		}

		// A bug on a stack is pinning whatever is underneath.
		if stacking {
			pieceScore *= kStacking
		}

		// Bugs already touching the enemy queen should be the cheap ones;
		// value spent there is value unavailable for pressure elsewhere.
		if enemyQueen, ok := b.Queen(piece.Player.Flip()); ok {
			for _, adj := range b.Field().Neighbours(hex) {
				if adj == enemyQueen {
					pieceScore = 0
					break
				}
			}
		}

		if piece.Player != b.ToMove() {
			pieceScore = -pieceScore
		}
		score += pieceScore
	}

	return kMoveable * score
}

// queens measures the relative safety of the two queens, including pillbug
// defenses.
func queens(b *hive.Board) float64 {
	toMove := b.ToMove()
	score := queenScoreFor(b, toMove) - queenScoreFor(b, toMove.Flip())
	return kQueens * score
}

func queenScoreFor(b *hive.Board, player hive.Player) float64 {
	queenHex, ok := b.Queen(player)
	if !ok {
		return 0
	}

	score := 0.0
	queen := hive.Piece{Player: player, Kind: hive.Queen, Num: 1}

	for _, neighbour := range b.NeighbourPieces(queenHex) {
		if neighbour.Player == player {
			// A friendly bug can be assumed to vacate the killspot later,
			// unless it cannot move at all.
			from, _ := b.Location(neighbour)
			blocked := isCrawler(neighbour.Kind) && b.IsBlockedCrawler(from)

			if blocked || b.IsPinned(neighbour) {
				score -= kQueenNeighbourhood
			} else {
				score -= kQueenNeighbourhood / 2
			}

			// A friendly pillbug next to the queen may warp it to safety.
			if b.CanThrowAnother(neighbour) && !b.IsPinned(queen) {
				if best, ok := bestEscape(b, queenHex, neighbour, true); ok && best > minimumOpenKillspots {
					score += kDefense
				}
			}
		} else {
			// Opposing bugs do not vacate killspots except in exceptional
			// tempo cases.
			score -= kQueenNeighbourhood * attackingKillspot

			// An opposing pillbug may drag the queen somewhere worse.
			if b.CanThrowAnother(neighbour) && !b.IsPinned(queen) {
				if worst, ok := bestEscape(b, queenHex, neighbour, false); ok && worst <= minimumOpenKillspots {
					score -= kQueenNeighbourhood
				}
			}
		}
	}

	// If the pillbug is still in hand and a direct-drop slot exists next to
	// the queen, keep a contingency reward.
	pillbug := hive.Piece{Player: player, Kind: hive.Pillbug, Num: 1}
	if _, placed := b.Location(pillbug); !placed && b.Pouch().Hand(player)[hive.Pillbug] > 0 {
		for _, n := range hive.Neighbours(queenHex) {
			if b.Occupied(n) {
				continue
			}
			hostile := false
			for _, p := range b.NeighbourPieces(n) {
				if p.Player != player {
					hostile = true
					break
				}
			}
			if !hostile {
				score += kDefense / 2
				break
			}
		}
	}

	return score
}

// bestEscape surveys the landing hexes a thrower could move the queen to,
// returning the most open killspot count when wantBest is set and the most
// smothered one otherwise.
func bestEscape(b *hive.Board, queenHex hive.Hex, thrower hive.Piece, wantBest bool) (int, bool) {
	intermediate, _ := b.Location(thrower)

	found := false
	best := 0
	if !wantBest {
		best = 6
	}

	for _, to := range hive.Neighbours(intermediate) {
		if b.Occupied(to) || b.CheckThrowVia(queenHex, thrower, to) != nil {
			continue
		}
		open := 6 - len(b.Field().Neighbours(to))
		if wantBest {
			best = max(best, open)
		} else {
			best = min(best, open)
		}
		found = true
	}
	return best, found
}

func isCrawler(kind hive.Bug) bool {
	switch kind {
	case hive.Ant, hive.Mosquito, hive.Pillbug, hive.Queen, hive.Spider:
		return true
	default:
		return false
	}
}

// reserve is the in-hand advantage: per species, the piece value plus the
// remaining count.
func reserve(b *hive.Board) float64 {
	toMove := b.ToMove()
	score := reserveFor(b, toMove) - reserveFor(b, toMove.Flip())
	return kReserve * score
}

func reserveFor(b *hive.Board, player hive.Player) float64 {
	score := 0.0
	hand := b.Pouch().Hand(player)
	for _, bug := range hive.Bugs() {
		score += BugValue(bug) + float64(hand[bug])
	}
	return score
}
