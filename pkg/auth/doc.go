// Package auth implements the credential and token lifecycle engine of
// the identity service: password and federated (OAuth/PKCE) login,
// stateless JWT access/refresh pairs, and single-use purpose-scoped
// verification tokens.
//
// # Architecture
//
// The package is organized around a small set of collaborators:
//
//   - Service — the orchestrator: Login, Register, Refresh, AuthURL,
//     ProviderCallback, VerifyEmail, RequestPasswordReset,
//     ResetPassword.
//   - AccountLinker — resolves a provider identity to a local user,
//     creating users and linked accounts and refreshing stored
//     provider credentials.
//   - VerificationService — issues, validates, consumes, and sweeps
//     single-use verification tokens. Only token hashes are persisted.
//   - TokenIssuer — mints and verifies the access/refresh pair.
//   - Hasher — argon2id one-way hashing for passwords and provider
//     access tokens.
//   - ProviderAdapter — per-provider OAuth details (GitHub, Yandex,
//     VK); VK uses authorization-code-with-PKCE.
//
// Persistence is abstracted behind UserStore, AccountStore, TokenStore,
// and StateStore; PostgreSQL and Redis implementations live under
// internal/storage.
//
// # Usage
//
//	svc := auth.NewService(users, accounts, tokens, states, cfg.TokenSecret,
//		auth.WithProviderAdapter(auth.NewGithubAdapter(ghCfg)),
//		auth.WithMailer(mailer),
//		auth.WithLogger(log),
//	)
//
//	user, pair, err := svc.Login(ctx, email, password)
//
// # Concurrency
//
// Services hold no mutable state beyond the signing secret, which is
// read-only after construction. The account-linking find-then-create
// sequence is not transactional; the unique index on
// (provider, provider_account_id) is the guard, and a lost race is
// retried once as a credential refresh.
package auth
