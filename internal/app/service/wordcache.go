package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// WordCache es el espejo en memoria del set de palabras prohibidas. La copia
// autoritativa vive en la DB; acá solo hay un snapshot que se reemplaza
// entero en cada Reload. Contains nunca toca la DB.
type WordCache struct {
	repo WordRepo

	mu      sync.RWMutex
	tokens  map[string]struct{} // entradas de una sola palabra
	phrases []string            // entradas con espacios
}

func NewWordCache(repo WordRepo) *WordCache {
	return &WordCache{repo: repo, tokens: map[string]struct{}{}}
}

// Reload trae el set completo y lo cambia de un golpe bajo el lock. El
// snapshot nuevo se arma fuera del lock: un lector jamás ve un set a medio
// construir. Si la consulta falla, el snapshot anterior queda intacto.
func (c *WordCache) Reload(ctx context.Context) (int, error) {
	words, err := c.repo.List(ctx)
	if err != nil {
		return c.Count(), fmt.Errorf("reload palabras: %w", err)
	}

	tokens := make(map[string]struct{}, len(words))
	var phrases []string
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if strings.ContainsRune(w, ' ') {
			phrases = append(phrases, w)
		} else {
			tokens[w] = struct{}{}
		}
	}

	c.mu.Lock()
	c.tokens, c.phrases = tokens, phrases
	c.mu.Unlock()
	return len(tokens) + len(phrases), nil
}

func (c *WordCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens) + len(c.phrases)
}

// Contains: match case-insensitive por palabra COMPLETA. "class" no debe
// disparar dentro de "classic"; "class act" sí.
func (c *WordCache) Contains(text string) bool {
	c.mu.RLock()
	tokens, phrases := c.tokens, c.phrases
	c.mu.RUnlock()

	if len(tokens) == 0 && len(phrases) == 0 {
		return false
	}
	lower := strings.ToLower(text)

	for _, tok := range splitWords(lower) {
		if _, ok := tokens[tok]; ok {
			return true
		}
	}
	for _, p := range phrases {
		if containsPhrase(lower, p) {
			return true
		}
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// containsPhrase busca la frase exigiendo frontera de palabra en ambos
// extremos.
func containsPhrase(text, phrase string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], phrase)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		i = start + 1
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}
