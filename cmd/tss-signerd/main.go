// Command tss-signerd serves the signing facade and offers standalone
// keygen/sign subcommands against an in-memory store for local testing.
// Grounded on the teacher retrieval pack's luxfi-threshold/cmd/threshold-cli
// main.go for its cobra root/subcommand layout.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"

	"github.com/mukulkatewa/tss-signer/internal/config"
	"github.com/mukulkatewa/tss-signer/internal/coordinator"
	"github.com/mukulkatewa/tss-signer/internal/ed25519signer"
	"github.com/mukulkatewa/tss-signer/internal/service"
	"github.com/mukulkatewa/tss-signer/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	walletID string
	message  string
	addr     string
)

var rootCmd = &cobra.Command{
	Use:   "tss-signerd",
	Short: "Threshold and Ed25519 signing service",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP signing facade",
	RunE:  runServe,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Run DKG for a new threshold wallet against an in-memory store",
	RunE:  runKeygen,
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message with a freshly-generated in-memory threshold wallet",
	RunE:  runSign,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&walletID, "wallet-id", "demo-wallet", "wallet identifier")
	signCmd.Flags().StringVar(&message, "message", "hello", "message to sign")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	rootCmd.AddCommand(serveCmd, keygenCmd, signCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("tss-signerd: logger init: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("tss-signerd: config: %w", err)
	}

	redisStore, err := store.NewRedisStore(store.RedisConfig{
		Address:  cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		return fmt.Errorf("tss-signerd: store init: %w", err)
	}
	defer redisStore.Close()

	ed := ed25519signer.New(redisStore)
	tc := coordinator.New(redisStore, logger)
	svc := service.New(ed, tc, cfg, logger)

	logger.Sugar().Infow("starting tss-signerd", "addr", addr, "mpc_nodes", cfg.MPCNodes, "mpc_threshold", cfg.MPCThreshold)
	return http.ListenAndServe(addr, svc.Routes())
}

func runKeygen(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s := store.NewMemStore()
	tc := coordinator.New(s, logger)

	ctx := context.Background()
	res, err := tc.PerformDKG(ctx, walletID, cfg.MPCThreshold, cfg.MPCNodes)
	if err != nil {
		return err
	}

	fmt.Printf("wallet %q master public key: 0x%s\n", walletID, hex.EncodeToString(res.MasterPublicKey.Encode(true)))
	fmt.Printf("share ids: %v\n", res.ShareIDs)
	return nil
}

func runSign(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s := store.NewMemStore()
	tc := coordinator.New(s, logger)

	ctx := context.Background()
	if _, err := tc.PerformDKG(ctx, walletID, cfg.MPCThreshold, cfg.MPCNodes); err != nil {
		return err
	}
	if err := tc.InitializeParties(ctx, walletID, cfg.MPCNodes); err != nil {
		return err
	}

	signingIDs := make([]int, cfg.MPCThreshold)
	for i := range signingIDs {
		signingIDs[i] = i + 1
	}

	h := sha256.Sum256([]byte(message))
	sig, err := tc.Sign(ctx, walletID, h[:], signingIDs)
	if err != nil {
		return err
	}

	fmt.Printf("signature: 0x%s\n", hex.EncodeToString(sig.Bytes()))
	return nil
}
