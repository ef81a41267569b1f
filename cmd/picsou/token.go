package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	jwtmw "github.com/Aughra/picsou/internal/platform/jwt"
)

type tokenCmd struct {
	subject string
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "mint a bearer token for the read API" }
func (*tokenCmd) Usage() string {
	return `picsou token -sub <client>

  Prints a token signed with JWT_SECRET, valid for TOKEN_TTL (default 720h).
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.subject, "sub", "", "client name stored as the token subject")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	secret, ttl := jwtmw.LoadConfig()
	if secret == "" {
		return fail(os.Stderr, c.Name(), errors.New(jwtmw.EnvKeyJWTSecret+" is not set"))
	}
	token, err := jwtmw.NewGenerator(secret, ttl).GenerateToken(c.subject)
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
