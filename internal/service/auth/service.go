package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/medconsult/consult-api/pkg/auth"
	apperrors "github.com/medconsult/consult-api/pkg/errors"
	"github.com/medconsult/consult-api/pkg/security"

	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/repository"
)

type Service struct {
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorRepository
	hasher     security.PasswordHasher
	jwtSvc     auth.JWTService
}

func NewService(
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
) *Service {
	return &Service{
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		hasher:     hasher,
		jwtSvc:     jwtSvc,
	}
}

// Login verifies credentials and issues an access token. The doctor
// profile is joined into the response when the user has one. Lookup
// failure and bad password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, apperrors.Store(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	token, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	resp := &model.LoginResponse{
		Token: token,
		User:  user,
	}

	if user.Role == model.RoleDoctor {
		profile, err := s.doctorRepo.GetProfile(ctx, user.ID)
		if err == nil {
			profile.DecodeFees()
			resp.Profile = profile
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Store(err)
		}
	}

	return resp, nil
}
