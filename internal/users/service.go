package users

import (
	"context"
	"log"
	"strings"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

// Service — каталог пользователей: регистрация и профиль «me».
type Service struct {
	Log    *log.Logger
	Repo   domain.UsersRepo
	Hasher domain.PasswordHasher
}

func New(logger *log.Logger, repo domain.UsersRepo, hasher domain.PasswordHasher) *Service {
	return &Service{Log: logger, Repo: repo, Hasher: hasher}
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup регистрирует нового пользователя с ролью user.
// Уникальность email добивает ограничение БД (репозиторий вернёт ErrBadParams).
func (s *Service) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !domain.ValidEmail(email) || !domain.ValidPassword(in.Password) {
		return domain.User{}, domain.ErrBadParams
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrUnexpected
	}

	u := domain.User{
		Email:     email,
		PassHash:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      domain.RoleUser,
		IsActive:  true,
	}
	created, err := s.Repo.CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	s.Log.Printf("signup ok user=%s email=%s", created.ID, created.Email)
	return created, nil
}

// Me — профиль текущего пользователя.
func (s *Service) Me(ctx context.Context, actor domain.Actor) (domain.User, error) {
	u, err := s.Repo.UserByID(ctx, actor.ID)
	if err != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type UpdateMeInput struct {
	FirstName *string
	LastName  *string
	Password  *string
}

// UpdateMe — частичное обновление профиля. Email и роль отсюда не меняются.
func (s *Service) UpdateMe(ctx context.Context, actor domain.Actor, in UpdateMeInput) (domain.User, error) {
	u, err := s.Me(ctx, actor)
	if err != nil {
		return domain.User{}, err
	}

	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Password != nil {
		if !domain.ValidPassword(*in.Password) {
			return domain.User{}, domain.ErrBadParams
		}
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return domain.User{}, domain.ErrUnexpected
		}
		u.PassHash = hash
	}

	updated, err := s.Repo.UpdateUser(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	s.Log.Printf("update me ok user=%s", updated.ID)
	return updated, nil
}
