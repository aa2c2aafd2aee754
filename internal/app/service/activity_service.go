package service

import (
	"context"
	"fmt"
	"log"
)

// ActivityService registra última actividad de cada miembro. Es telemetría
// best-effort: corre fuera del camino de moderación y sus errores se
// loguean y se tragan.
type ActivityService struct {
	members MemberRepo
}

func NewActivityService(members MemberRepo) *ActivityService {
	return &ActivityService{members: members}
}

func (s *ActivityService) Track(ctx context.Context, userID int64, username, displayName string) {
	if displayName == "" {
		displayName = fmt.Sprintf("User_%d", userID)
	}
	if err := s.members.Touch(ctx, userID, username, displayName); err != nil {
		log.Printf("activity: upsert user=%d: %v", userID, err)
	}
}
