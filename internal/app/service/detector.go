package service

import (
	"regexp"
	"strings"
)

// Motivos que ve el usuario en el aviso de sanción.
const (
	ReasonLinks      = "publicidad y enlaces prohibidos"
	ReasonVocabulary = "lenguaje prohibido"
)

// Patrón anti-publicidad, a propósito permisivo: preferimos un falso
// positivo (la acción es una advertencia reversible) a dejar pasar spam.
// Cubre URLs con esquema, www., deep-links de chat y @menciones.
var reLink = regexp.MustCompile(`(?i)(https?://|www\.|discord\.gg/|t\.me/|@)\S+`)

// Tokens tipo dominio sin esquema ("casino-vip.com").
var reDomain = regexp.MustCompile(`(?i)(^|\s)[a-z0-9][a-z0-9.-]*\.(com|net|org|ru|gg|io|me|xyz)(/\S*)?(\s|$)`)

type Violation struct {
	Reason string
}

// Detector clasifica el cuerpo de un mensaje en cero o UNA violación.
// Sin efectos: el escalado es problema de ModerationService.
type Detector struct {
	cache *WordCache
}

func NewDetector(cache *WordCache) *Detector { return &Detector{cache: cache} }

// Detect evalúa los checks en orden fijo y corta en el primer match, así un
// mensaje que viola dos reglas se sanciona por exactamente un motivo. El
// orden (links primero o vocabulario primero) es decisión de policy.
func (d *Detector) Detect(text string, linksFirst bool) (Violation, bool) {
	text = strings.ToLower(text)

	checks := []func(string) (Violation, bool){d.checkLinks, d.checkVocabulary}
	if !linksFirst {
		checks[0], checks[1] = checks[1], checks[0]
	}
	for _, check := range checks {
		if v, ok := check(text); ok {
			return v, true
		}
	}
	return Violation{}, false
}

func (d *Detector) checkLinks(text string) (Violation, bool) {
	if reLink.MatchString(text) || reDomain.MatchString(text) {
		return Violation{Reason: ReasonLinks}, true
	}
	return Violation{}, false
}

func (d *Detector) checkVocabulary(text string) (Violation, bool) {
	if d.cache.Contains(text) {
		return Violation{Reason: ReasonVocabulary}, true
	}
	return Violation{}, false
}
