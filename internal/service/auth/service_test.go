package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/medconsult/consult-api/pkg/auth"
	apperrors "github.com/medconsult/consult-api/pkg/errors"
	"github.com/medconsult/consult-api/pkg/security"

	"github.com/medconsult/consult-api/internal/model"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) CreateWithProfile(_ context.Context, user *model.User, _ *model.DoctorProfile) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) Delete(context.Context, uuid.UUID) error { return nil }

type fakeDoctorRepo struct {
	profiles map[uuid.UUID]*model.DoctorProfile
}

func (f *fakeDoctorRepo) GetProfile(_ context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeDoctorRepo) UpdateProfile(context.Context, *model.DoctorProfile) error { return nil }

func (f *fakeDoctorRepo) List(context.Context) ([]*model.Doctor, error) { return nil, nil }

func newAuthFixture(t *testing.T) (*Service, *fakeUserRepo, *fakeDoctorRepo, security.PasswordHasher) {
	t.Helper()
	users := &fakeUserRepo{users: make(map[string]*model.User)}
	doctors := &fakeDoctorRepo{profiles: make(map[uuid.UUID]*model.DoctorProfile)}
	hasher := security.NewBcryptHasher(4)
	jwtSvc := pkgauth.NewJWTService("test-secret", 1)
	return NewService(users, doctors, hasher, jwtSvc), users, doctors, hasher
}

func seedUser(t *testing.T, users *fakeUserRepo, hasher security.PasswordHasher, email, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	user := &model.User{Email: email, PasswordHash: hash, Role: role}
	user.ID = uuid.New()
	users.users[email] = user
	return user
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, users, _, hasher := newAuthFixture(t)
	user := seedUser(t, users, hasher, "root@clinic.test", "s3cret-pass", model.RoleAdmin)

	resp, err := svc.Login(context.Background(), "root@clinic.test", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Nil(t, resp.Profile)

	claims, err := pkgauth.NewJWTService("test-secret", 1).ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, _, hasher := newAuthFixture(t)
	seedUser(t, users, hasher, "root@clinic.test", "s3cret-pass", model.RoleAdmin)

	_, err := svc.Login(context.Background(), "root@clinic.test", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestLoginUnknownUserLooksLikeBadPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody@clinic.test", "whatever")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestLoginDoctorJoinsProfile(t *testing.T) {
	svc, users, doctors, hasher := newAuthFixture(t)
	user := seedUser(t, users, hasher, "doc@clinic.test", "s3cret-pass", model.RoleDoctor)

	feesJSON, err := json.Marshal(model.ConsultationFees{Office: 120, Video: 80})
	require.NoError(t, err)
	doctors.profiles[user.ID] = &model.DoctorProfile{
		UserID:   user.ID,
		FullName: "Dr. Weber",
		FeesJSON: feesJSON,
	}

	resp, err := svc.Login(context.Background(), "doc@clinic.test", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Dr. Weber", resp.Profile.FullName)
	assert.Equal(t, 120.0, resp.Profile.Fees.Office)
	assert.Equal(t, 80.0, resp.Profile.Fees.Video)
}

func TestLoginDoctorWithoutProfile(t *testing.T) {
	svc, users, _, hasher := newAuthFixture(t)
	seedUser(t, users, hasher, "doc@clinic.test", "s3cret-pass", model.RoleDoctor)

	resp, err := svc.Login(context.Background(), "doc@clinic.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Nil(t, resp.Profile)
}
