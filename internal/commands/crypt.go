// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/config"
	"github.com/MKhiriev/go-swiftly/internal/crypto"
	"github.com/spf13/pflag"
)

// CryptKeyEnv supplies the key for encrypt and decrypt when --key is not
// given.
const CryptKeyEnv = config.EnvPrefix + "CRYPT_KEY"

type cryptOptions struct {
	key string
}

func cryptFlags(name string, o *cryptOptions) *pflag.FlagSet {
	fs := command.NewFlagSet(name)
	fs.StringVarP(&o.key, "key", "k", "",
		"The key to use. You can also set this with the environment variable "+CryptKeyEnv+".")
	return fs
}

func cryptKey(cc *command.Context, o cryptOptions) (string, error) {
	if o.key != "" {
		return o.key, nil
	}
	if key := cc.Environ[CryptKeyEnv]; key != "" {
		return key, nil
	}
	return "", command.Errorf("No key given; use --key or set %s", CryptKeyEnv)
}

func streamCipher(cc *command.Context) crypto.StreamCipher {
	if cc.Cipher != nil {
		return cc.Cipher
	}
	return crypto.NewStreamCipher()
}

type encryptCommand struct{}

func (encryptCommand) Name() string { return "encrypt" }

func (c encryptCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "encrypt [options]",
		Description: []string{
			"Encrypts standard input to standard output using the key given. Useful as a --sub-command of get or in a pipe into put.",
		},
		Options: command.Options(cryptFlags(c.Name(), &cryptOptions{})),
	}
}

func (c encryptCommand) Run(_ context.Context, cc *command.Context, args []string) error {
	var o cryptOptions
	args, err := cc.Parse(c, cryptFlags(c.Name(), &o), args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return cc.UsageError(c, "encrypt takes no arguments")
	}

	key, err := cryptKey(cc, o)
	if err != nil {
		return err
	}
	return streamCipher(cc).Encrypt(cc.Stdout, cc.Stdin, key)
}

type decryptCommand struct{}

func (decryptCommand) Name() string { return "decrypt" }

func (c decryptCommand) Usage() command.Usage {
	return command.Usage{
		Synopsis: "decrypt [options]",
		Description: []string{
			"Decrypts standard input to standard output using the key given; the reverse of encrypt.",
		},
		Options: command.Options(cryptFlags(c.Name(), &cryptOptions{})),
	}
}

func (c decryptCommand) Run(_ context.Context, cc *command.Context, args []string) error {
	var o cryptOptions
	args, err := cc.Parse(c, cryptFlags(c.Name(), &o), args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return cc.UsageError(c, "decrypt takes no arguments")
	}

	key, err := cryptKey(cc, o)
	if err != nil {
		return err
	}

	err = streamCipher(cc).Decrypt(cc.Stdout, cc.Stdin, key)
	switch {
	case errors.Is(err, crypto.ErrAuthentication),
		errors.Is(err, crypto.ErrTruncated),
		errors.Is(err, crypto.ErrBadHeader),
		errors.Is(err, crypto.ErrTrailingData):
		return command.Errorf("%s", err)
	default:
		return err
	}
}
