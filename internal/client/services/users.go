package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/logging"
)

type UserService interface {
	Create(ctx context.Context, u models.NewUser) error
}

type userService struct {
	client client.Client
	log    logging.Logger
}

func NewUserService(c client.Client, log logging.Logger) UserService {
	return &userService{client: c, log: log}
}

func (s *userService) Create(ctx context.Context, u models.NewUser) error {
	var missing []string
	if strings.TrimSpace(u.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(u.Username) == "" {
		missing = append(missing, "username")
	}
	if u.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return errors.New("required: " + strings.Join(missing, ", "))
	}
	if _, err := models.ParseRole(string(u.Role)); err != nil {
		return err
	}

	if err := s.client.CreateUser(ctx, u); err != nil {
		return err
	}
	s.log.Info(ctx, "user created", "username", u.Username, "role", u.Role)
	return nil
}
