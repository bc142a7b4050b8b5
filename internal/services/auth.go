package services

import (
	"errors"
	"strings"
	"time"

	"github.com/JException/mentee-hotline/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService resolves entered access codes into a session context and
// issues the session tokens that carry it. The administrative code is kept
// only as a bcrypt hash so a memory dump never exposes it in clear text.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	adminHash []byte
}

func NewAuthService(db *gorm.DB, jwtSecret, adminCode string) *AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminCode), bcrypt.DefaultCost)
	if err != nil {
		// Only reachable for absurdly long codes; treat as misconfiguration.
		panic("auth: cannot hash admin access code: " + err.Error())
	}
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret), adminHash: hash}
}

// SessionContext is the explicit session object handed to the client after
// a successful code verification: who you are, what you may see.
type SessionContext struct {
	ParticipantID uint   `json:"participant_id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	GroupNum      int    `json:"group_num"`
}

// Verify resolves an access code. The administrative code always yields a
// mentor session; a participant's exact access key yields a member session
// scoped to that participant's group. Anything else fails with
// ErrInvalidAccessCode — one error for both "wrong code" and "no such
// group", so callers cannot enumerate groups.
func (s *AuthService) Verify(code string) (*SessionContext, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidAccessCode
	}

	if bcrypt.CompareHashAndPassword(s.adminHash, []byte(code)) == nil {
		mentor, err := s.ensureMentor()
		if err != nil {
			return nil, err
		}
		return &SessionContext{
			ParticipantID: mentor.ID,
			Name:          mentor.Name,
			Role:          models.RoleMentor,
			GroupNum:      models.MentorGroup,
		}, nil
	}

	var p models.Participant
	if err := s.db.Where("access_key = ? AND role = ?", code, models.RoleMember).
		First(&p).Error; err != nil {
		return nil, ErrInvalidAccessCode
	}

	return &SessionContext{
		ParticipantID: p.ID,
		Name:          p.Name,
		Role:          p.Role,
		GroupNum:      p.GroupNum,
	}, nil
}

// ensureMentor returns the well-known mentor participant, creating it on
// first admin login so heartbeats and messages always have an identity to
// attach to.
func (s *AuthService) ensureMentor() (*models.Participant, error) {
	var mentor models.Participant
	err := s.db.Where("role = ?", models.RoleMentor).First(&mentor).Error
	if err == nil {
		return &mentor, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	mentor = models.Participant{
		Name:      "Mentor",
		Role:      models.RoleMentor,
		GroupNum:  models.MentorGroup,
		AccessKey: "mentor:" + randomCode(),
	}
	if err := s.db.Create(&mentor).Error; err != nil {
		return nil, err
	}
	return &mentor, nil
}

func (s *AuthService) GenerateToken(ctx *SessionContext) (string, error) {
	claims := jwt.MapClaims{
		"participant_id": ctx.ParticipantID,
		"name":           ctx.Name,
		"role":           ctx.Role,
		"group_num":      ctx.GroupNum,
		"exp":            time.Now().Add(24 * time.Hour).Unix(),
		"iat":            time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*SessionContext, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	id, ok := claims["participant_id"].(float64)
	if !ok {
		return nil, errors.New("invalid participant_id in token")
	}
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	group, _ := claims["group_num"].(float64)

	return &SessionContext{
		ParticipantID: uint(id),
		Name:          name,
		Role:          role,
		GroupNum:      int(group),
	}, nil
}
