package service

import (
	"context"
	"fmt"
	"log"
)

type IncomingMessage struct {
	GuildID     string
	ChannelID   string
	MessageID   string
	UserID      int64
	DisplayName string
	Content     string
}

type Outcome int

const (
	OutcomeClean Outcome = iota
	OutcomeExempt
	OutcomeWarned
	OutcomeBanned
	OutcomeBanFailed
)

type Sanction struct {
	Outcome Outcome
	Reason  string
	Count   int // contador DESPUÉS del ciclo
	Max     int
}

// ModerationService es la máquina de escalado: violación → advertencia →
// expulsión. El estado por usuario es su warning_count persistido; acá no
// se guarda nada en memoria.
type ModerationService struct {
	members  MemberRepo
	chat     ChatActions
	detector *Detector
	policy   *PolicyService
	admins   AdminSet
}

func NewModerationService(members MemberRepo, chat ChatActions, det *Detector, policy *PolicyService, admins AdminSet) *ModerationService {
	return &ModerationService{members: members, chat: chat, detector: det, policy: policy, admins: admins}
}

// Moderate clasifica el mensaje y, si hay violación, aplica la sanción.
// La exención de admins va ANTES de cualquier mutación: un mensaje de un
// privilegiado nunca toca contadores ni se borra.
func (s *ModerationService) Moderate(ctx context.Context, m IncomingMessage) (Sanction, error) {
	if s.admins.Contains(m.UserID) {
		return Sanction{Outcome: OutcomeExempt}, nil
	}

	pol := s.policy.Current()
	v, ok := s.detector.Detect(m.Content, pol.LinksFirst)
	if !ok {
		return Sanction{Outcome: OutcomeClean}, nil
	}
	return s.applySanction(ctx, m, v.Reason, pol.MaxWarnings)
}

// applySanction: borrar mensaje, incrementar y avisar o expulsar. Los tres
// efectos son independientes: que falle uno no suprime a los demás, pero
// cada falla se loguea por separado.
func (s *ModerationService) applySanction(ctx context.Context, m IncomingMessage, reason string, max int) (Sanction, error) {
	if err := s.chat.DeleteMessage(m.ChannelID, m.MessageID); err != nil {
		log.Printf("moderation: no pude borrar msg=%s user=%d: %v", m.MessageID, m.UserID, err)
	}

	n, err := s.members.AddWarning(ctx, m.UserID)
	if err != nil {
		// sin incremento no hay sanción que anunciar: el mensaje queda sin
		// sancionar y el handler sigue vivo
		return Sanction{}, err
	}

	mention := fmt.Sprintf("<@%d>", m.UserID)

	if n < max {
		txt := fmt.Sprintf("⚠️ %s, ¡infracción!\nMotivo: %s\nAdvertencia %d/%d.", mention, reason, n, max)
		if err := s.chat.Send(m.ChannelID, txt); err != nil {
			log.Printf("moderation: no pude enviar advertencia user=%d: %v", m.UserID, err)
		}
		return Sanction{Outcome: OutcomeWarned, Reason: reason, Count: n, Max: max}, nil
	}

	if err := s.chat.BanMember(m.GuildID, m.UserID, reason); err != nil {
		// el contador queda incrementado: no reseteamos lo que no expulsamos
		log.Printf("moderation: ban falló user=%d: %v", m.UserID, err)
		diag := fmt.Sprintf("⚠️ No pude expulsar a %s (¿me faltan permisos?). Advertencias: %d/%d.", mention, n, max)
		if err := s.chat.Send(m.ChannelID, diag); err != nil {
			log.Printf("moderation: no pude enviar diagnóstico user=%d: %v", m.UserID, err)
		}
		return Sanction{Outcome: OutcomeBanFailed, Reason: reason, Count: n, Max: max}, nil
	}

	// ban confirmado → el contador vuelve a 0 (si reaparece, arranca limpio)
	if err := s.members.ResetWarnings(ctx, m.UserID); err != nil {
		log.Printf("moderation: ban ok pero no pude resetear contador user=%d: %v", m.UserID, err)
	}
	txt := fmt.Sprintf("🚫 **%s** fue expulsado del servidor.\nMotivo: %s (%d/%d).", m.DisplayName, reason, n, max)
	if err := s.chat.Send(m.ChannelID, txt); err != nil {
		log.Printf("moderation: no pude anunciar ban user=%d: %v", m.UserID, err)
	}
	return Sanction{Outcome: OutcomeBanned, Reason: reason, Count: 0, Max: max}, nil
}
