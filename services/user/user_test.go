package user

import (
	"testing"

	"tripay/config"
	"tripay/models"
	"tripay/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	config.AppConfig.JWTSecret = "test-secret"
}

type mockUserRepo struct {
	byEmail map[string]*models.User
	created []*models.User
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{byEmail: map[string]*models.User{}}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUserRepo) Create(u *models.User) error {
	m.created = append(m.created, u)
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetByID(id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func newUserService(repo *mockUserRepo) *DefaultUserService {
	return &DefaultUserService{Repo: repo, Logger: zap.NewNop()}
}

func TestRegister(t *testing.T) {
	repo := newMockUserRepo()
	svc := newUserService(repo)

	usr, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
		Fullname: "Alice A",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleCustomer, usr.Role)
	assert.NotEmpty(t, usr.ID)
	assert.NotEqual(t, "supersecret", usr.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte("supersecret")))
	require.Len(t, repo.created, 1)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo(&models.User{ID: "u-1", Email: "alice@example.com"})
	svc := newUserService(repo)

	_, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	assert.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestRegisterUnknownRole(t *testing.T) {
	svc := newUserService(newMockUserRepo())

	_, err := svc.Register(RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "supersecret",
		Role:     models.Role("admin"),
	})
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := newMockUserRepo(&models.User{
		ID:           "u-1",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	})
	svc := newUserService(repo)

	resp, err := svc.Authenticate("alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.User.ID)
	require.NotEmpty(t, resp.Token)

	// The token carries the id and role resolved at login.
	sub, role, err := utils.ExtractClaimsFromToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", sub)
	assert.Equal(t, string(models.RoleCustomer), role)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	repo := newMockUserRepo(&models.User{
		ID:           "u-1",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
	})
	svc := newUserService(repo)

	_, err := svc.Authenticate("alice@example.com", "wrong")
	assert.EqualError(t, err, "invalid email or password")
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := newUserService(newMockUserRepo())

	_, err := svc.Authenticate("ghost@example.com", "whatever")
	assert.EqualError(t, err, "invalid email or password")
}
