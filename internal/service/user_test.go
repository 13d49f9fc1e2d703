package service

import (
	"context"
	"errors"
	"testing"

	"github.com/videotube/backend/internal/dto"
	apperrors "github.com/videotube/backend/internal/errors"
	"github.com/videotube/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceForTest() (*UserService, *fakeUserStore, *fakeMedia) {
	store := newFakeUserStore()
	media := newFakeMedia()
	return NewUserService(store, testTokenService(), media), store, media
}

func seedUser(t *testing.T, store *fakeUserStore, username, email, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return store.add(&model.User{
		Username: username,
		Email:    email,
		FullName: "Seeded User",
		Password: string(hashed),
		Avatar:   "https://cdn.test/media/seed-avatar.png",
	})
}

func registerReq() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username: "Chai",
		Email:    "Chai@Example.com",
		FullName: "Chai Aur Code",
		Password: "longenough",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("blank field rejected", func(t *testing.T) {
		svc, _, _ := newUserServiceForTest()
		req := registerReq()
		req.FullName = "   "
		if _, err := svc.Register(ctx, req, "/tmp/avatar.png", ""); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seedUser(t, store, "chai", "other@example.com", "password1")
		if _, err := svc.Register(ctx, registerReq(), "/tmp/avatar.png", ""); !errors.Is(err, apperrors.ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("missing avatar rejected", func(t *testing.T) {
		svc, _, _ := newUserServiceForTest()
		if _, err := svc.Register(ctx, registerReq(), "", ""); !errors.Is(err, apperrors.ErrAvatarNeeded) {
			t.Errorf("expected ErrAvatarNeeded, got %v", err)
		}
	})

	t.Run("avatar upload failure rejected", func(t *testing.T) {
		svc, _, media := newUserServiceForTest()
		media.failPaths["/tmp/avatar.png"] = true
		if _, err := svc.Register(ctx, registerReq(), "/tmp/avatar.png", ""); !errors.Is(err, apperrors.ErrUploadFailed) {
			t.Errorf("expected ErrUploadFailed, got %v", err)
		}
	})

	t.Run("success normalizes and hashes", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		user, err := svc.Register(ctx, registerReq(), "/tmp/avatar.png", "/tmp/cover.png")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}

		if user.Username != "chai" {
			t.Errorf("username should be lowercased, got %q", user.Username)
		}
		if user.Email != "chai@example.com" {
			t.Errorf("email should be lowercased, got %q", user.Email)
		}
		if user.Avatar == "" || user.CoverImage == "" {
			t.Errorf("image URLs missing: avatar=%q cover=%q", user.Avatar, user.CoverImage)
		}

		stored := store.users[user.ID]
		if stored.Password == "longenough" {
			t.Error("password stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("longenough")); err != nil {
			t.Errorf("stored hash does not verify: %v", err)
		}
	})

	t.Run("cover upload failure tolerated", func(t *testing.T) {
		svc, _, media := newUserServiceForTest()
		media.failPaths["/tmp/cover.png"] = true
		user, err := svc.Register(ctx, registerReq(), "/tmp/avatar.png", "/tmp/cover.png")
		if err != nil {
			t.Fatalf("Register should tolerate a failed cover upload: %v", err)
		}
		if user.CoverImage != "" {
			t.Errorf("cover image should be empty after failed upload, got %q", user.CoverImage)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newUserServiceForTest()
		_, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "ghost", Password: "whatever"})
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seedUser(t, store, "chai", "chai@example.com", "correct-password")
		_, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "chai", Password: "wrong-password"})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("success persists refresh token", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")

		resp, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "chai", Password: "correct-password"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Fatal("token pair missing")
		}
		if store.users[seeded.ID].RefreshToken != resp.RefreshToken {
			t.Error("issued refresh token was not persisted")
		}
		if resp.User.Username != "chai" {
			t.Errorf("response user = %q", resp.User.Username)
		}
	})

	t.Run("login by email", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seedUser(t, store, "chai", "chai@example.com", "correct-password")
		if _, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "Chai@Example.com", Password: "correct-password"}); err != nil {
			t.Fatalf("email login should work case-insensitively: %v", err)
		}
	})
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, svc *UserService) *dto.LoginResponse {
		t.Helper()
		resp, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "chai", Password: "correct-password"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		return resp
	}

	t.Run("missing token", func(t *testing.T) {
		svc, _, _ := newUserServiceForTest()
		if _, err := svc.RefreshTokens(ctx, ""); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _ := newUserServiceForTest()
		if _, err := svc.RefreshTokens(ctx, "not-a-jwt"); !errors.Is(err, apperrors.ErrInvalidRefreshToken) {
			t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
		}
	})

	t.Run("rotation invalidates the previous token", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
		first := login(t, svc)

		pair, err := svc.RefreshTokens(ctx, first.RefreshToken)
		if err != nil {
			t.Fatalf("RefreshTokens: %v", err)
		}
		if store.users[seeded.ID].RefreshToken != pair.RefreshToken {
			t.Error("rotated refresh token was not persisted")
		}

		// Replaying the consumed token must fail
		if _, err := svc.RefreshTokens(ctx, first.RefreshToken); !errors.Is(err, apperrors.ErrInvalidRefreshToken) {
			t.Errorf("reused token should be rejected, got %v", err)
		}

		// The freshly issued one keeps working
		if _, err := svc.RefreshTokens(ctx, pair.RefreshToken); err != nil {
			t.Errorf("current token should refresh: %v", err)
		}
	})

	t.Run("logged-out token rejected", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
		resp := login(t, svc)

		if err := svc.Logout(ctx, seeded.ID); err != nil {
			t.Fatalf("Logout: %v", err)
		}
		if _, err := svc.RefreshTokens(ctx, resp.RefreshToken); !errors.Is(err, apperrors.ErrInvalidRefreshToken) {
			t.Errorf("token from before logout should be rejected, got %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newUserServiceForTest()
	seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
	store.users[seeded.ID].RefreshToken = "some-refresh-token"

	if err := svc.Logout(ctx, seeded.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.users[seeded.ID].RefreshToken != "" {
		t.Error("refresh token should be cleared on logout")
	}

	if err := svc.Logout(ctx, 999); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown user, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong old password", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
		err := svc.ChangePassword(ctx, seeded.ID, &dto.ChangePasswordRequest{
			OldPassword: "not-the-password",
			NewPassword: "replacement",
		})
		if !errors.Is(err, apperrors.ErrIncorrectPassword) {
			t.Errorf("expected ErrIncorrectPassword, got %v", err)
		}
	})

	t.Run("success stores new hash", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
		err := svc.ChangePassword(ctx, seeded.ID, &dto.ChangePasswordRequest{
			OldPassword: "correct-password",
			NewPassword: "replacement",
		})
		if err != nil {
			t.Fatalf("ChangePassword: %v", err)
		}
		stored := store.users[seeded.ID].Password
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("replacement")); err != nil {
			t.Errorf("new password does not verify: %v", err)
		}
	})
}

func TestUpdateAccountDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("both fields blank", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
		_, err := svc.UpdateAccountDetails(ctx, seeded.ID, &dto.UpdateAccountRequest{})
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
		user, err := svc.UpdateAccountDetails(ctx, seeded.ID, &dto.UpdateAccountRequest{
			Email: "New@Example.com",
		})
		if err != nil {
			t.Fatalf("UpdateAccountDetails: %v", err)
		}
		if user.Email != "new@example.com" {
			t.Errorf("email = %q, want lowercased new@example.com", user.Email)
		}
		if user.FullName != "Seeded User" {
			t.Errorf("full name should be untouched, got %q", user.FullName)
		}
	})
}

func TestUpdateAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		svc, store, _ := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
		if _, err := svc.UpdateAvatar(ctx, seeded.ID, ""); !errors.Is(err, apperrors.ErrFileRequired) {
			t.Errorf("expected ErrFileRequired, got %v", err)
		}
	})

	t.Run("upload failure leaves old URL", func(t *testing.T) {
		svc, store, media := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")
		media.failPaths["/tmp/new-avatar.png"] = true

		if _, err := svc.UpdateAvatar(ctx, seeded.ID, "/tmp/new-avatar.png"); !errors.Is(err, apperrors.ErrUploadFailed) {
			t.Fatalf("expected ErrUploadFailed, got %v", err)
		}
		if store.users[seeded.ID].Avatar != "https://cdn.test/media/seed-avatar.png" {
			t.Error("failed upload must not change the stored avatar")
		}
		if len(media.deleted) != 0 {
			t.Error("failed upload must not delete the old asset")
		}
	})

	t.Run("success replaces and deletes old asset", func(t *testing.T) {
		svc, store, media := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")

		user, err := svc.UpdateAvatar(ctx, seeded.ID, "/tmp/new-avatar.png")
		if err != nil {
			t.Fatalf("UpdateAvatar: %v", err)
		}
		if user.Avatar != "https://cdn.test/media/new-avatar.png" {
			t.Errorf("avatar = %q", user.Avatar)
		}
		if len(media.deleted) != 1 || media.deleted[0] != "https://cdn.test/media/seed-avatar.png" {
			t.Errorf("old asset should be deleted once, got %v", media.deleted)
		}
	})

	t.Run("cover replacement without previous asset skips delete", func(t *testing.T) {
		svc, store, media := newUserServiceForTest()
		seeded := seedUser(t, store, "chai", "chai@example.com", "correct-password")

		user, err := svc.UpdateCoverImage(ctx, seeded.ID, "/tmp/cover.png")
		if err != nil {
			t.Fatalf("UpdateCoverImage: %v", err)
		}
		if user.CoverImage == "" {
			t.Error("cover image URL missing")
		}
		if len(media.deleted) != 0 {
			t.Errorf("no previous cover to delete, got %v", media.deleted)
		}
	})
}
