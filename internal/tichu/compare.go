package tichu

// Beats reports whether candidate legally beats previous as the new top of
// a trick. A nil/empty previous combination means the trick stack is empty
// (any legal combination may lead, subject to the Dog/Mahjong lead rules
// enforced by the round engine rather than here).
func Beats(previous, candidate Combination) error {
	if candidate.IsBomb() {
		if previous.Cards == nil {
			return nil
		}
		switch candidate.Type {
		case StraightFlush:
			if previous.Type != StraightFlush {
				return nil
			}
			if len(candidate.Cards) > len(previous.Cards) {
				return nil
			}
			if len(candidate.Cards) == len(previous.Cards) && candidate.rank() > previous.rank() {
				return nil
			}
			return newErr(ErrIllegalBeat, "straight flush does not beat a longer or higher straight flush")
		case FourOfAKind:
			if previous.Type == StraightFlush {
				return newErr(ErrIllegalBeat, "four of a kind cannot beat a straight flush")
			}
			if previous.Type != FourOfAKind {
				return nil
			}
			if candidate.rank() > previous.rank() {
				return nil
			}
			return newErr(ErrIllegalBeat, "four of a kind does not beat a higher four of a kind")
		}
	}

	if previous.Cards == nil {
		return nil
	}

	if previous.IsBomb() {
		return newErr(ErrIllegalBeat, "only a higher bomb can beat a bomb")
	}

	if candidate.Type != previous.Type {
		return newErr(ErrIllegalBeat, "combination type does not match the top of the trick")
	}

	switch candidate.Type {
	case Single:
		return compareSingle(previous, candidate)
	case Pair, Triple:
		if candidate.rank() > previous.rank() {
			return nil
		}
		return newErr(ErrIllegalBeat, "does not outrank the top of the trick")
	case FullHouse:
		if candidate.rank() > previous.rank() {
			return nil
		}
		return newErr(ErrIllegalBeat, "full house triple does not outrank the top of the trick")
	case Straight, SequenceOfPairs:
		if len(candidate.Cards) != len(previous.Cards) {
			return newErr(ErrIllegalBeat, "must match the length of the top of the trick")
		}
		if candidate.rank() > previous.rank() {
			return nil
		}
		return newErr(ErrIllegalBeat, "does not outrank the top of the trick")
	default:
		return newErr(ErrIllegalBeat, "unsupported combination type")
	}
}

func compareSingle(previous, candidate Combination) error {
	prev, cand := previous.Cards[0], candidate.Cards[0]

	if prev.Rank == RankDog {
		// Dog ends the trick immediately when led; the round engine never
		// asks the comparator to beat it mid-trick.
		return newErr(ErrIllegalBeat, "nothing beats the Dog; it ends the trick")
	}
	if cand.Rank == RankDog {
		return newErr(ErrIllegalBeat, "the Dog can only be played to lead")
	}

	if prev.Rank == RankDragon {
		return newErr(ErrIllegalBeat, "the Dragon beats every non-bomb single")
	}
	if cand.Rank == RankDragon {
		return nil
	}

	prevNum, _ := prev.Number()
	candNum, _ := cand.Number()

	if prevNum == candNum {
		// Tie only arises between a real card and a Phoenix standing in
		// for the same value; the real card always wins the tie.
		if cand.Rank == RankPhoenix && prev.Rank != RankPhoenix {
			return newErr(ErrIllegalBeat, "a Phoenix single is weaker than a real card of the same value")
		}
		if prev.Rank == RankPhoenix && cand.Rank != RankPhoenix {
			return nil
		}
		return newErr(ErrIllegalBeat, "does not outrank the top of the trick")
	}
	if candNum > prevNum {
		return nil
	}
	return newErr(ErrIllegalBeat, "does not outrank the top of the trick")
}
