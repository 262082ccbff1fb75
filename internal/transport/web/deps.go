package web

import "github.com/kln-se/uml-diagrams/internal/domain"

type Repos struct {
	Users    domain.UsersRepo
	Diagrams domain.DiagramsRepo
	Shares   domain.SharingRepo
}

type AuthDeps struct {
	Hasher    domain.PasswordHasher
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}
