package workflow

import (
	"fmt"

	"github.com/jhoicas/practo-cms-api/internal/domain"
)

// ReasonFinalStage motivo cuando el contenido ya no puede avanzar.
const ReasonFinalStage = "el contenido está en la etapa final"

// NextStage busca la siguiente etapa en la tabla de progresión.
// ok=false indica que current es terminal.
func NextStage(ct ContentType, current Stage) (next Stage, ok bool, err error) {
	p, err := progressionFor(ct)
	if err != nil {
		return "", false, err
	}
	n, known := p.next[current]
	if !known {
		return "", false, fmt.Errorf("%w: %q no pertenece al workflow de %s", domain.ErrInvalidStage, string(current), ct)
	}
	if n == "" {
		return "", false, nil
	}
	return n, true, nil
}

// AdvanceCheck resultado de CanAdvance.
type AdvanceCheck struct {
	Allowed   bool
	NextStage Stage
	Reason    string
}

// CanAdvance permite avanzar mientras la etapa actual no sea terminal.
func CanAdvance(ct ContentType, current Stage) (AdvanceCheck, error) {
	next, ok, err := NextStage(ct, current)
	if err != nil {
		return AdvanceCheck{}, err
	}
	if !ok {
		return AdvanceCheck{Allowed: false, Reason: ReasonFinalStage}, nil
	}
	return AdvanceCheck{Allowed: true, NextStage: next}, nil
}

// TransitionResult resultado de ValidateTransition. Expected queda vacío si from es terminal.
type TransitionResult struct {
	Valid    bool
	Expected Stage
	Reason   string
}

// ValidateTransition solo acepta el paso único hacia adelante: sin saltos, sin retrocesos
// y sin quedarse en la misma etapa. El motivo nombra la única etapa legal.
func ValidateTransition(ct ContentType, from, to Stage) TransitionResult {
	next, ok, err := NextStage(ct, from)
	if err != nil {
		return TransitionResult{Valid: false, Reason: err.Error()}
	}
	if !ok {
		return TransitionResult{Valid: false, Reason: ReasonFinalStage + " y no puede moverse"}
	}
	if to != next {
		return TransitionResult{
			Valid:    false,
			Expected: next,
			Reason:   fmt.Sprintf("transición de etapa inválida: se esperaba %s, se recibió %s", next, to),
		}
	}
	return TransitionResult{Valid: true, Expected: next}
}

// CheckTransition igual que ValidateTransition pero como error: *TransitionError o ErrInvalidStage.
func CheckTransition(ct ContentType, from, to Stage) error {
	if _, _, err := NextStage(ct, from); err != nil {
		return err
	}
	res := ValidateTransition(ct, from, to)
	if res.Valid {
		return nil
	}
	return &TransitionError{
		ContentType: ct,
		From:        from,
		To:          to,
		Expected:    res.Expected,
		Reason:      res.Reason,
	}
}

// TransitionError transición rechazada. Expected == "" significa que From es terminal.
type TransitionError struct {
	ContentType ContentType
	From        Stage
	To          Stage
	Expected    Stage
	Reason      string
}

func (e *TransitionError) Error() string { return e.Reason }

// Unwrap permite errors.Is(err, domain.ErrInvalidTransition).
func (e *TransitionError) Unwrap() error { return domain.ErrInvalidTransition }

// CanEdit el contenido queda congelado en LOCKED y PUBLISHED.
func CanEdit(stage Stage) bool {
	return stage != StageLocked && stage != StagePublished
}

// CanPublish solo aplica a videos: publicable únicamente en LOCKED.
func CanPublish(ct ContentType, stage Stage) (bool, error) {
	if ct != ContentVideo {
		return false, fmt.Errorf("%w: solo los videos se publican", domain.ErrInvalidContentType)
	}
	if _, _, err := NextStage(ct, stage); err != nil {
		return false, err
	}
	return stage == StageLocked, nil
}
