package services

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/hearthline/hearthline/internal/models"
	pgrepo "github.com/hearthline/hearthline/internal/repositories/postgres"
	"github.com/hearthline/hearthline/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, caregiver *models.Caregiver, err error)
}

type authService struct {
	caregivers pgrepo.CaregiverRepo
}

func NewAuthService(caregivers pgrepo.CaregiverRepo) AuthService {
	return &authService{caregivers: caregivers}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Caregiver, error) {
	const op = "AuthService.Login"

	if email == "" || password == "" {
		return "", nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", nil, utils.E(utils.CodeInternal, op, "JWT_SECRET is not set", nil)
	}

	cg, err := s.caregivers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return "", nil, utils.E(utils.CodeInternal, op, "failed to look up caregiver", err)
	}

	if err := utils.CheckPassword(cg.PasswordHash, password); err != nil {
		return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  cg.ID,
		"role": string(cg.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
	}
	if iss := os.Getenv("JWT_ISSUER"); iss != "" {
		claims["iss"] = iss
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}

	_ = s.caregivers.TouchSignIn(ctx, cg.ID, now)
	return token, cg, nil
}
