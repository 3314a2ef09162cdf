package enums

import "fmt"

// CardPriority orders production cards on the shop floor. Urgent cards sort
// ahead of everything else; a missing priority is treated as normal.
type CardPriority string

const (
	CardPriorityLow    CardPriority = "low"
	CardPriorityNormal CardPriority = "normal"
	CardPriorityHigh   CardPriority = "high"
	CardPriorityUrgent CardPriority = "urgent"
)

var validCardPriorities = []CardPriority{
	CardPriorityLow,
	CardPriorityNormal,
	CardPriorityHigh,
	CardPriorityUrgent,
}

// String implements fmt.Stringer.
func (c CardPriority) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CardPriority.
func (c CardPriority) IsValid() bool {
	for _, candidate := range validCardPriorities {
		if candidate == c {
			return true
		}
	}
	return false
}

// Rank returns the sort weight for the priority; lower ranks sort first.
// Unknown or empty priorities rank as normal.
func (c CardPriority) Rank() int {
	switch c {
	case CardPriorityUrgent:
		return 0
	case CardPriorityHigh:
		return 1
	case CardPriorityLow:
		return 3
	default:
		return 2
	}
}

// ParseCardPriority converts raw input into a CardPriority.
func ParseCardPriority(value string) (CardPriority, error) {
	for _, candidate := range validCardPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid card priority %q", value)
}
