// ABOUTME: Subcommand implementations for realmgate-passwd
// ABOUTME: Rewrites password files in place and verifies via the auth checker

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/2389/realmgate/internal/auth"
	"github.com/2389/realmgate/internal/conf"
	"github.com/2389/realmgate/internal/realm"
)

// record is one username/password pair in file order.
type record struct {
	user     string
	password string
}

// parseArgs splits positional arguments from the --password flag.
// Supports both "--password value" and "--password=value" formats.
func parseArgs(args []string) (pos []string, password string, hasPassword bool, err error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--password" || arg == "-p":
			if i+1 >= len(args) {
				return nil, "", false, fmt.Errorf("--password requires a value")
			}
			password = args[i+1]
			hasPassword = true
			i++
		case strings.HasPrefix(arg, "--password="):
			password = strings.TrimPrefix(arg, "--password=")
			hasPassword = true
		case strings.HasPrefix(arg, "-"):
			return nil, "", false, fmt.Errorf("unknown flag: %s", arg)
		default:
			pos = append(pos, arg)
		}
	}
	return pos, password, hasPassword, nil
}

// readRecords loads every record from a password file, preserving order.
// A missing file yields an empty list so `add` can create it.
func readRecords(path string) ([]record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []record
	r := conf.NewReader(f)
	for {
		line, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, record{user: line.Key, password: line.Value})
	}
	return records, nil
}

// writeRecords rewrites a password file. Comments are not preserved; the
// server only reads `username = password` records anyway.
func writeRecords(path string, records []record) error {
	var buf strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&buf, "%s = %s\n", rec.user, rec.password)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// promptPassword reads a password without echo, with confirmation.
func promptPassword(confirm bool) (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if confirm {
		fmt.Print("Confirm:  ")
		pw2, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("reading confirmation: %w", err)
		}
		if string(pw) != string(pw2) {
			return "", fmt.Errorf("passwords do not match")
		}
		realm.WipeBytes(pw2)
	}

	return string(pw), nil
}

func cmdAdd(args []string) error {
	pos, password, hasPassword, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return fmt.Errorf("usage: realmgate-passwd add <file> <user>")
	}
	path, user := pos[0], pos[1]

	if strings.Contains(user, "=") || strings.Contains(user, ":") {
		return fmt.Errorf("username must not contain '=' or ':'")
	}

	records, err := readRecords(path)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.user == user {
			return fmt.Errorf("user %q already exists in %s", user, path)
		}
	}

	if !hasPassword {
		password, err = promptPassword(true)
		if err != nil {
			return err
		}
	}

	records = append(records, record{user: user, password: password})
	if err := writeRecords(path, records); err != nil {
		return err
	}

	color.Green("Added %s to %s\n", user, path)
	return nil
}

func cmdRemove(args []string) error {
	pos, _, _, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return fmt.Errorf("usage: realmgate-passwd remove <file> <user>")
	}
	path, user := pos[0], pos[1]

	records, err := readRecords(path)
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, rec := range records {
		if rec.user == user {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return fmt.Errorf("user %q not found in %s", user, path)
	}

	if err := writeRecords(path, kept); err != nil {
		return err
	}

	color.Green("Removed %s from %s\n", user, path)
	return nil
}

func cmdList(args []string) error {
	pos, _, _, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("usage: realmgate-passwd list <file>")
	}

	records, err := readRecords(pos[0])
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("(no users)")
		return nil
	}
	for _, rec := range records {
		fmt.Println(rec.user)
	}
	return nil
}

// cmdVerify runs the supplied credentials through the same checker the
// server uses, including the cached password store.
func cmdVerify(args []string) error {
	pos, password, hasPassword, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return fmt.Errorf("usage: realmgate-passwd verify <file> <user>")
	}
	path, user := pos[0], pos[1]

	if !hasPassword {
		password, err = promptPassword(false)
		if err != nil {
			return err
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := realm.NewStore(time.Second, logger)
	defer store.Close()

	checker := auth.NewChecker(store, logger)
	header := "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))

	if _, ok := checker.Verify(context.Background(), header, path); !ok {
		return fmt.Errorf("credentials rejected")
	}

	color.Green("Credentials accepted\n")
	return nil
}
