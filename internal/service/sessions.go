package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hugo/internal/culture"
	"hugo/internal/session"
	"hugo/internal/store"
	"hugo/internal/store/eventlog"
)

// SessionStep is the outcome of creating, reading or advancing a chat.
type SessionStep struct {
	Session  session.Session  `json:"session"`
	Reply    session.Reply    `json:"reply"`
	Progress session.Progress `json:"progress"`
}

// StartSession creates and stores a new chat session.
func (s *Service) StartSession(ctx context.Context, lang string) (SessionStep, error) {
	if err := s.requireStore(); err != nil {
		return SessionStep{}, err
	}
	sess := session.New(s.newID(), s.Language(lang))
	if err := s.saveSession(ctx, sess); err != nil {
		return SessionStep{}, err
	}
	return s.step(sess, session.Current(s.Bank(), sess)), nil
}

func (s *Service) GetSession(ctx context.Context, id string) (SessionStep, error) {
	sess, err := s.loadSession(ctx, id)
	if err != nil {
		return SessionStep{}, err
	}
	return s.step(sess, session.Current(s.Bank(), sess)), nil
}

// AdvanceSession feeds one input into a stored session. User-correctable
// errors come back together with the re-prompt step; the stored session is
// left untouched in that case.
func (s *Service) AdvanceSession(ctx context.Context, id, input string) (SessionStep, error) {
	sess, err := s.loadSession(ctx, id)
	if err != nil {
		return SessionStep{}, err
	}
	bank := s.Bank()
	next, reply, err := session.Advance(bank, sess, input)
	if err != nil {
		s.metrics.SessionStep(string(sess.State), stepOutcome(err))
		if correctable(err) {
			return s.step(sess, reply), invalid(err)
		}
		return s.step(sess, reply), err
	}
	if next.State == session.StateComplete && next.Profile != nil {
		next, err = s.completeSession(ctx, next)
	} else {
		err = s.saveSession(ctx, next)
	}
	if err != nil {
		return SessionStep{}, err
	}
	s.metrics.SessionStep(string(sess.State), "ok")
	s.record(ctx, eventlog.KindSessionAdvanced, next.ID, map[string]any{
		"from":  sess.State,
		"to":    next.State,
		"index": next.Index,
	})
	return s.step(next, reply), nil
}

func (s *Service) step(sess session.Session, reply session.Reply) SessionStep {
	return SessionStep{Session: sess, Reply: reply, Progress: sess.Progress(s.Bank())}
}

func (s *Service) loadSession(ctx context.Context, id string) (session.Session, error) {
	if err := s.requireStore(); err != nil {
		return session.Session{}, err
	}
	row, err := s.store.Sessions().FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return session.Session{}, err
	}
	return store.SessionFromModel(*row)
}

func (s *Service) saveSession(ctx context.Context, sess session.Session) error {
	row, err := store.NewSessionModel(sess)
	if err != nil {
		return err
	}
	return s.store.Sessions().Save(ctx, &row)
}

// completeSession stores the finished profile and the completed session in
// one transaction so a failed save leaves neither behind.
func (s *Service) completeSession(ctx context.Context, sess session.Session) (session.Session, error) {
	p, who := s.identify(*sess.Profile, store.Respondent{
		ID:      sess.ID,
		Name:    sess.Name,
		Email:   sess.Email,
		Country: sess.Country,
	})
	sess.Profile = &p
	profileRow, err := store.NewProfileModel(p, who)
	if err != nil {
		return session.Session{}, err
	}
	sessionRow, err := store.NewSessionModel(sess)
	if err != nil {
		return session.Session{}, err
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return session.Session{}, err
	}
	defer func() {
		if uow != nil {
			_ = uow.Rollback()
		}
	}()
	if err := uow.Profiles().Insert(ctx, &profileRow); err != nil {
		return session.Session{}, fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	if err := uow.Sessions().Save(ctx, &sessionRow); err != nil {
		return session.Session{}, fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	if err := uow.Commit(); err != nil {
		return session.Session{}, err
	}
	uow = nil

	s.completed(ctx, p, who)
	return sess, nil
}

func correctable(err error) bool {
	return errors.Is(err, session.ErrEmptyInput) ||
		errors.Is(err, session.ErrInvalidEmail) ||
		errors.Is(err, culture.ErrUnknownCountry) ||
		errors.Is(err, session.ErrSessionComplete)
}

func stepOutcome(err error) string {
	if correctable(err) {
		return "reprompt"
	}
	return "error"
}
