package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"mirage/internal/domain"
	"mirage/internal/repos"
)

var (
	ErrBadCreds      = errors.New("invalid username or password")
	ErrUsernameTaken = errors.New("username already taken")
)

type AuthService struct {
	Users    *repos.UserRepo
	Sessions *repos.SessionRepo
}

func NewAuthService(users *repos.UserRepo, sessions *repos.SessionRepo) *AuthService {
	return &AuthService{Users: users, Sessions: sessions}
}

func (s *AuthService) Register(sid, username, email, password string) (*domain.User, error) {
	if existing, _ := s.Users.ByUsername(username); existing != nil {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	id, err := s.Users.Create(username, email, string(hash))
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Bind(sid, id); err != nil {
		return nil, err
	}
	return s.Users.ByID(id)
}

func (s *AuthService) Login(sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil || !u.IsActive {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Sessions.Bind(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Sessions.Unbind(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Sessions.User(sid)
}
