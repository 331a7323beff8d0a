package entity

// Participant identifies who placed a mark.
type Participant string

const (
	Human     Participant = "human"
	Automated Participant = "automated"
)

// Mark returns the fixed mark assigned to the participant.
func (p Participant) Mark() Mark {
	switch p {
	case Human:
		return FirstMark
	case Automated:
		return SecondMark
	default:
		return Empty
	}
}

// Outcome is the terminal result of a session.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeHumanWin
	OutcomeAutomatedWin
	OutcomeTie
)

// Outcome codes reported to collaborators.
const (
	CodeTie          = -1
	CodeHumanWin     = 0
	CodeAutomatedWin = 1
)

// OutcomeForMark maps the mark of a completed line to the outcome.
func OutcomeForMark(mark Mark) Outcome {
	switch mark {
	case FirstMark:
		return OutcomeHumanWin
	case SecondMark:
		return OutcomeAutomatedWin
	default:
		return OutcomeNone
	}
}

func (o Outcome) IsTerminal() bool {
	return o != OutcomeNone
}

// Code returns -1 for a tie, 0 when the human wins and 1 when the automated participant wins.
// OutcomeNone has no code and reports false.
func (o Outcome) Code() (int, bool) {
	switch o {
	case OutcomeTie:
		return CodeTie, true
	case OutcomeHumanWin:
		return CodeHumanWin, true
	case OutcomeAutomatedWin:
		return CodeAutomatedWin, true
	default:
		return 0, false
	}
}

// Message is the end-of-game text shown to the player.
func (o Outcome) Message() string {
	switch o {
	case OutcomeTie:
		return "Tie"
	case OutcomeAutomatedWin:
		return "AI wins"
	case OutcomeHumanWin:
		return "Player wins"
	default:
		return ""
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeTie:
		return "tie"
	case OutcomeHumanWin:
		return "human_win"
	case OutcomeAutomatedWin:
		return "automated_win"
	default:
		return "none"
	}
}
