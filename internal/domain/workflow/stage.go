// Package workflow modela las dos progresiones lineales de aprobación (guiones y videos).
// Es puro: no guarda estado, solo juzga transiciones propuestas.
package workflow

import (
	"fmt"
	"strings"

	"github.com/jhoicas/practo-cms-api/internal/domain"
)

// ContentType tipo de contenido sujeto a workflow.
type ContentType string

const (
	ContentScript ContentType = "script"
	ContentVideo  ContentType = "video"
)

// Stage etapa del ciclo de aprobación. El conjunto válido depende del ContentType.
type Stage string

const (
	StageDraft     Stage = "DRAFT"
	StageMedical   Stage = "MEDICAL"
	StageBrand     Stage = "BRAND"
	StageDoctor    Stage = "DOCTOR"
	StageLocked    Stage = "LOCKED"
	StagePublished Stage = "PUBLISHED"
)

// InitialStage etapa de todo contenido recién creado.
const InitialStage = StageDraft

// progression mapea etapa → siguiente etapa; "" marca la etapa terminal.
type progression struct {
	order []Stage
	next  map[Stage]Stage
}

func newProgression(order ...Stage) progression {
	p := progression{order: order, next: make(map[Stage]Stage, len(order))}
	for i, s := range order {
		if i+1 < len(order) {
			p.next[s] = order[i+1]
		} else {
			p.next[s] = ""
		}
	}
	return p
}

// Guiones pasan por revisión médica antes que de marca; videos al revés.
var progressions = map[ContentType]progression{
	ContentScript: newProgression(StageDraft, StageMedical, StageBrand, StageDoctor, StageLocked),
	ContentVideo:  newProgression(StageDraft, StageBrand, StageMedical, StageDoctor, StageLocked, StagePublished),
}

func progressionFor(ct ContentType) (progression, error) {
	p, ok := progressions[ct]
	if !ok {
		return progression{}, fmt.Errorf("%w: %q", domain.ErrInvalidContentType, string(ct))
	}
	return p, nil
}

// Valid informa si ct es script o video.
func (ct ContentType) Valid() bool {
	_, ok := progressions[ct]
	return ok
}

// ParseContentType normaliza y valida el tipo recibido.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidContentType, s)
	}
	return ct, nil
}

// ParseStage valida que s sea una etapa del tipo de contenido.
func ParseStage(ct ContentType, s string) (Stage, error) {
	p, err := progressionFor(ct)
	if err != nil {
		return "", err
	}
	st := Stage(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := p.next[st]; !ok {
		return "", fmt.Errorf("%w: %q no pertenece al workflow de %s", domain.ErrInvalidStage, s, ct)
	}
	return st, nil
}

// Stages devuelve las etapas del tipo en orden de progresión.
func Stages(ct ContentType) ([]Stage, error) {
	p, err := progressionFor(ct)
	if err != nil {
		return nil, err
	}
	out := make([]Stage, len(p.order))
	copy(out, p.order)
	return out, nil
}

// TerminalStage etapa sin transición hacia adelante: LOCKED (script) o PUBLISHED (video).
func TerminalStage(ct ContentType) (Stage, error) {
	p, err := progressionFor(ct)
	if err != nil {
		return "", err
	}
	return p.order[len(p.order)-1], nil
}
