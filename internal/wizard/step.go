// Package wizard holds the pure, stateless half of the campaign wizard: the
// per-step payload schemas, the field mapper that turns a payload into a
// draft delta, and the completion evaluator.
package wizard

import (
	"errors"
	"strconv"
	"strings"
)

// Step identifies one of the five wizard sections.
type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
	Step4
	Step5
)

var ErrInvalidStep = errors.New("invalid wizard step")

// ParseStep parses a path segment into a Step.
func ParseStep(raw string) (Step, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidStep
	}
	step := Step(n)
	if !step.Valid() {
		return 0, ErrInvalidStep
	}
	return step, nil
}

func (s Step) Valid() bool {
	return s >= Step1 && s <= Step5
}

func (s Step) Int() int {
	return int(s)
}

func (s Step) String() string {
	return strconv.Itoa(int(s))
}
