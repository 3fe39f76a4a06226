package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/editor"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/logging"
)

var (
	ErrDuplicatePass = errors.New("pass number already exists")
	ErrWrongMode     = errors.New("editor is in the wrong mode for this action")
)

// PassService submits editor state to the server.
//
// Every write asks the Confirmer first and is guarded by a per-action
// in-flight flag. Nothing is retried.
type PassService interface {
	Fetch(ctx context.Context, passNo string) (*models.PassRecord, error)
	Create(ctx context.Context, ed *editor.Editor) error
	Update(ctx context.Context, ed *editor.Editor) error
	SubmitItemOut(ctx context.Context, ed *editor.Editor) error
	Delete(ctx context.Context, passNo string) error
}

type passService struct {
	client  client.Client
	confirm Confirmer
	log     logging.Logger
	flags   inFlight
}

func NewPassService(c client.Client, confirmer Confirmer, log logging.Logger) PassService {
	return &passService{client: c, confirm: confirmer, log: log}
}

func (s *passService) Fetch(ctx context.Context, passNo string) (*models.PassRecord, error) {
	if passNo == "" {
		return nil, errors.New("pass number is required")
	}
	return s.client.GetPass(ctx, passNo)
}

// Create checks that the pass number is unused before sending the record.
// Only a 404 from the lookup counts as unused; any other failure aborts.
func (s *passService) Create(ctx context.Context, ed *editor.Editor) error {
	if ed.Mode() != editor.ModeCreate {
		return fmt.Errorf("%w: %s", ErrWrongMode, ed.Mode())
	}
	if err := ed.Validate(); err != nil {
		return err
	}

	release, err := s.flags.acquire("create")
	if err != nil {
		return err
	}
	defer release()

	rec := ed.Record()
	_, err = s.client.GetPass(ctx, rec.PassNo)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicatePass, rec.PassNo)
	case !errors.Is(err, client.ErrNotFound):
		return err
	}

	prompt := fmt.Sprintf("Create pass %s with %d item(s)?", rec.PassNo, len(rec.Items))
	if err := confirm(ctx, s.confirm, prompt); err != nil {
		return err
	}

	if err := s.client.CreatePass(ctx, models.NewCreatePassRequest(rec)); err != nil {
		return err
	}
	ed.Saved()
	s.log.Info(ctx, "pass created", "pass_no", rec.PassNo, "items", len(rec.Items))
	return nil
}

func (s *passService) Update(ctx context.Context, ed *editor.Editor) error {
	if ed.Mode() != editor.ModeEdit {
		return fmt.Errorf("%w: %s", ErrWrongMode, ed.Mode())
	}
	if err := ed.Validate(); err != nil {
		return err
	}

	release, err := s.flags.acquire("update")
	if err != nil {
		return err
	}
	defer release()

	rec := ed.Record()
	if err := confirm(ctx, s.confirm, fmt.Sprintf("Save changes to pass %s?", rec.PassNo)); err != nil {
		return err
	}
	if err := s.client.UpdatePass(ctx, rec.PassNo, models.NewUpdatePassRequest(rec)); err != nil {
		return err
	}
	ed.Saved()
	s.log.Info(ctx, "pass updated", "pass_no", rec.PassNo)
	return nil
}

func (s *passService) SubmitItemOut(ctx context.Context, ed *editor.Editor) error {
	if ed.Mode() != editor.ModeItemOut {
		return fmt.Errorf("%w: %s", ErrWrongMode, ed.Mode())
	}
	if err := ed.ValidateItemOut(); err != nil {
		return err
	}

	release, err := s.flags.acquire("item-out")
	if err != nil {
		return err
	}
	defer release()

	rec := ed.Record()
	out := 0
	for _, it := range rec.Items {
		if it.ItemOut {
			out++
		}
	}
	prompt := fmt.Sprintf("Record %d of %d item(s) of pass %s as out?", out, len(rec.Items), rec.PassNo)
	if err := confirm(ctx, s.confirm, prompt); err != nil {
		return err
	}
	if err := s.client.UpdateItemsOut(ctx, rec.PassNo, models.NewItemOutRequest(rec)); err != nil {
		return err
	}
	ed.Saved()
	s.log.Info(ctx, "items out recorded", "pass_no", rec.PassNo, "out", out)
	return nil
}

func (s *passService) Delete(ctx context.Context, passNo string) error {
	if passNo == "" {
		return errors.New("pass number is required")
	}

	release, err := s.flags.acquire("delete")
	if err != nil {
		return err
	}
	defer release()

	if err := confirm(ctx, s.confirm, fmt.Sprintf("Delete pass %s? This cannot be undone.", passNo)); err != nil {
		return err
	}
	if err := s.client.DeletePass(ctx, passNo); err != nil {
		return err
	}
	s.log.Info(ctx, "pass deleted", "pass_no", passNo)
	return nil
}
