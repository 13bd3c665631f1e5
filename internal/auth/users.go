package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"unishop/internal/storage"
)

const usersKey = "users"

var (
	// ErrEmailTaken is returned when registering an existing address.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown users and bad passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned for profile lookups of unknown users.
	ErrUserNotFound = errors.New("user not found")
)

// Address is a shipping address attached to a profile and reused as the
// default for the next checkout.
type Address struct {
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Ciudad    string `json:"ciudad"`
	Telefono  string `json:"telefono"`
}

// User is one account in the mock credential store.
type User struct {
	Email          string     `json:"email"`
	Nombre         string     `json:"nombre"`
	PasswordHash   string     `json:"passwordHash"`
	Roles          []string   `json:"roles"`
	DefaultAddress Address    `json:"defaultAddress"`
	LastOrderAt    *time.Time `json:"lastOrderAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Users persists accounts in the storage collaborator.
type Users struct {
	kv storage.Store
	mu sync.Mutex
}

// NewUsers creates the account store.
func NewUsers(kv storage.Store) *Users {
	return &Users{kv: kv}
}

func (u *Users) load(ctx context.Context) []User {
	var users []User
	storage.ReadJSON(ctx, u.kv, usersKey, &users)
	return users
}

func (u *Users) save(ctx context.Context, users []User) error {
	return storage.WriteJSON(ctx, u.kv, usersKey, users)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SeedAdmin ensures the administrator account exists. Existing accounts
// are left untouched.
func (u *Users) SeedAdmin(ctx context.Context, email, password string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	email = normalizeEmail(email)
	users := u.load(ctx)
	for _, existing := range users {
		if existing.Email == email {
			return nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	users = append(users, User{
		Email:        email,
		Nombre:       "Administrador",
		PasswordHash: string(hash),
		Roles:        []string{RoleAdmin, RoleCustomer},
		CreatedAt:    time.Now().UTC(),
	})
	return u.save(ctx, users)
}

// Register creates a customer account.
func (u *Users) Register(ctx context.Context, email, password, nombre string) (*User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	email = normalizeEmail(email)
	users := u.load(ctx)
	for _, existing := range users {
		if existing.Email == email {
			return nil, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		// Same fallback the storefront shows for providerless accounts.
		nombre = strings.SplitN(email, "@", 2)[0]
	}

	user := User{
		Email:        email,
		Nombre:       nombre,
		PasswordHash: string(hash),
		Roles:        []string{RoleCustomer},
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, user)
	if err := u.save(ctx, users); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate checks a credential pair.
func (u *Users) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	for _, user := range u.load(ctx) {
		if user.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return &user, nil
	}
	return nil, ErrInvalidCredentials
}

// Get returns the account for an email.
func (u *Users) Get(ctx context.Context, email string) (*User, error) {
	email = normalizeEmail(email)
	for _, user := range u.load(ctx) {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

// RecordOrder stores the default address and last-order timestamp after a
// successful checkout. Unknown users are a silent no-op (guest checkout).
func (u *Users) RecordOrder(ctx context.Context, email string, addr Address, at time.Time) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	email = normalizeEmail(email)
	users := u.load(ctx)
	for i, user := range users {
		if user.Email != email {
			continue
		}
		users[i].DefaultAddress = addr
		users[i].LastOrderAt = &at
		return u.save(ctx, users)
	}
	return nil
}
