package service

import (
	"fmt"
	"strconv"
)

// AdminSet son las identidades privilegiadas del bot: exentas de moderación
// y habilitadas para los comandos administrativos.
type AdminSet map[int64]struct{}

func NewAdminSet(ids []int64) AdminSet {
	s := make(AdminSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// ParseAdminIDs arma el set desde los snowflakes de la config.
func ParseAdminIDs(raw []string) (AdminSet, error) {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("id de admin inválido %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return NewAdminSet(ids), nil
}

func (a AdminSet) Contains(id int64) bool {
	_, ok := a[id]
	return ok
}

func (a AdminSet) IDs() []int64 {
	out := make([]int64, 0, len(a))
	for id := range a {
		out = append(out, id)
	}
	return out
}
