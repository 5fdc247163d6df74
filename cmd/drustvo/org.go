package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/auth"
	"github.com/erazemk/drustvo/internal/store"
)

var orgName string

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Manage organisations",
}

var orgCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an organisation with a generated password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, database, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		password, err := generatePassword(16)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		org, err := store.CreateOrganisation(context.Background(), database, orgName, hash)
		if err != nil {
			return err
		}
		log.Info("organisation created", zap.String("organisation_id", org.ID))

		printCreateResult(cfg.Database.Path, org.Name, password)
		return nil
	},
}

func init() {
	orgCreateCmd.Flags().StringVarP(&orgName, "name", "n", "", "organisation name")
	orgCreateCmd.MarkFlagRequired("name")
	orgCmd.AddCommand(orgCreateCmd)
}

// printCreateResult prints the new organisation's credentials to stdout.
func printCreateResult(dbPath, name, password string) {
	fmt.Printf("Database: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Organisation created:")
	fmt.Printf("  Name:     %s\n", name)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("It can be changed after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
