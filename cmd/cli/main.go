// Command regctl is the command-line client for the library registry.
//
// Connection settings come from the environment:
//
//	REGISTRY_URL         gateway base URL (default http://localhost:6820)
//	REGISTRY_KEY         hex private key used to sign mutating requests
//	REGISTRY_CALLER      dev-mode caller address (X-Caller header)
//	REGISTRY_ADMIN_TOKEN admin token for the deposit faucet
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/libvault/registry/pkg/client"
)

// version metadata populated via -ldflags at build time
var (
	version = "dev"
	commit  = ""
)

const requestTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		showHelp()
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "version":
		fmt.Printf("regctl %s", version)
		if commit != "" {
			fmt.Printf(" (commit %s)", commit)
		}
		fmt.Println()
		return
	case "keygen":
		handleKeygen()
		return
	case "help", "-h", "--help":
		showHelp()
		return
	}

	c := newClient()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch command {
	case "health":
		exitOn(c.Health(ctx))
		fmt.Println("✅ Gateway is healthy")
	case "status":
		status, err := c.Status(ctx)
		exitOn(err)
		printJSON(status)
	case "whoami":
		addr := c.Address()
		if addr == "" {
			addr = "(no key configured)"
		}
		fmt.Println(addr)

	case "list":
		names, err := c.ListLibraries(ctx)
		exitOn(err)
		for _, n := range names {
			fmt.Println(n)
		}
	case "info":
		requireArgs(args, 1, "info <name>")
		info, err := c.LibraryInfo(ctx, args[0])
		exitOn(err)
		printJSON(info)
	case "register":
		requireArgs(args, 1, "register <name> [--private] [--desc <text>] [--lang <lang>] [--tags a,b,c]")
		opts, name := parseRegisterArgs(args)
		exitOn(c.Register(ctx, name, opts))
		fmt.Printf("✅ Registered %s\n", name)
	case "delete":
		requireArgs(args, 1, "delete <name>")
		exitOn(c.Delete(ctx, args[0]))
		fmt.Printf("✅ Deleted %s\n", args[0])

	case "publish":
		requireArgs(args, 3, "publish <name> <version> <content-ref> [dep ...]")
		exitOn(c.Publish(ctx, args[0], args[1], args[2], args[3:]))
		fmt.Printf("✅ Published %s@%s\n", args[0], args[1])
	case "deprecate":
		requireArgs(args, 2, "deprecate <name> <version>")
		exitOn(c.Deprecate(ctx, args[0], args[1]))
		fmt.Printf("✅ Deprecated %s@%s\n", args[0], args[1])
	case "versions":
		requireArgs(args, 1, "versions <name>")
		versions, err := c.ListVersions(ctx, args[0])
		exitOn(err)
		for _, v := range versions {
			fmt.Println(v)
		}
	case "version-info":
		requireArgs(args, 2, "version-info <name> <version>")
		info, err := c.VersionInfo(ctx, args[0], args[1])
		exitOn(err)
		printJSON(info)

	case "set-license":
		requireArgs(args, 3, "set-license <name> <fee> <required:true|false>")
		fee := parseAmount(args[1])
		exitOn(c.SetLicense(ctx, args[0], fee, args[2] == "true"))
		fmt.Printf("✅ License for %s: fee=%s required=%s\n", args[0], fee, args[2])
	case "purchase":
		requireArgs(args, 2, "purchase <name> <payment>")
		exitOn(c.Purchase(ctx, args[0], parseAmount(args[1])))
		fmt.Printf("✅ Purchased license for %s\n", args[0])
	case "has-license":
		requireArgs(args, 2, "has-license <name> <address>")
		owned, err := c.HasLicense(ctx, args[0], args[1])
		exitOn(err)
		fmt.Println(owned)

	case "authorize":
		requireArgs(args, 2, "authorize <name> <address>")
		exitOn(c.Authorize(ctx, args[0], args[1]))
		fmt.Printf("✅ Authorized %s on %s\n", args[1], args[0])
	case "revoke":
		requireArgs(args, 2, "revoke <name> <address>")
		exitOn(c.Revoke(ctx, args[0], args[1]))
		fmt.Printf("✅ Revoked %s on %s\n", args[1], args[0])
	case "has-access":
		requireArgs(args, 2, "has-access <name> <address>")
		granted, err := c.HasAccess(ctx, args[0], args[1])
		exitOn(err)
		fmt.Println(granted)

	case "balance":
		requireArgs(args, 1, "balance <address>")
		bal, err := c.Balance(ctx, args[0])
		exitOn(err)
		fmt.Println(bal)
	case "deposit":
		requireArgs(args, 2, "deposit <address> <amount>")
		exitOn(c.Deposit(ctx, args[0], parseAmount(args[1])))
		fmt.Printf("✅ Deposited %s to %s\n", args[1], args[0])

	case "watch":
		handleWatch(c, args)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showHelp()
		os.Exit(1)
	}
}

func newClient() *client.Client {
	cfg := client.DefaultConfig()
	if v := os.Getenv("REGISTRY_URL"); v != "" {
		cfg.BaseURL = v
	}
	cfg.PrivateKeyHex = os.Getenv("REGISTRY_KEY")
	cfg.DevCaller = os.Getenv("REGISTRY_CALLER")
	cfg.AdminToken = os.Getenv("REGISTRY_ADMIN_TOKEN")
	cfg.QuietMode = true

	c, err := client.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	return c
}

// handleWatch streams events until interrupted. No request timeout here.
func handleWatch(c *client.Client, args []string) {
	eventType := ""
	if len(args) > 0 {
		eventType = args[0]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ch, err := c.SubscribeEvents(ctx, eventType)
	exitOn(err)
	fmt.Fprintln(os.Stderr, "📡 Watching events (Ctrl-C to stop)...")
	for env := range ch {
		payload, _ := json.Marshal(env.Payload)
		fmt.Printf("%s %s %s\n", time.UnixMilli(env.Timestamp).Format(time.RFC3339), env.Type, payload)
	}
}

func handleKeygen() {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to generate key: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Address:     %s\n", ethcrypto.PubkeyToAddress(key.PublicKey).Hex())
	fmt.Printf("Private key: 0x%s\n", hex.EncodeToString(ethcrypto.FromECDSA(key)))
	fmt.Println("\nExport REGISTRY_KEY with the private key to sign requests.")
}

func parseRegisterArgs(args []string) (client.RegisterOptions, string) {
	name := args[0]
	opts := client.RegisterOptions{}
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--private":
			opts.Private = true
		case "--desc":
			i++
			if i < len(rest) {
				opts.Description = rest[i]
			}
		case "--lang":
			i++
			if i < len(rest) {
				opts.Language = rest[i]
			}
		case "--tags":
			i++
			if i < len(rest) {
				for _, t := range strings.Split(rest[i], ",") {
					if t = strings.TrimSpace(t); t != "" {
						opts.Tags = append(opts.Tags, t)
					}
				}
			}
		default:
			fmt.Fprintf(os.Stderr, "Unknown register flag: %s\n", rest[i])
			os.Exit(1)
		}
	}
	return opts, name
}

func parseAmount(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		fmt.Fprintf(os.Stderr, "❌ Amount must be a non-negative integer, got %q\n", s)
		os.Exit(1)
	}
	return v
}

func requireArgs(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Fprintf(os.Stderr, "Usage: regctl %s\n", usage)
		os.Exit(1)
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	exitOn(err)
	fmt.Println(string(out))
}

func showHelp() {
	fmt.Printf("📚 regctl - library registry client\n\n")
	fmt.Printf("Usage: regctl <command> [args]\n\n")
	fmt.Printf("Commands:\n")
	fmt.Printf("  health                                    - Check gateway health\n")
	fmt.Printf("  status                                    - Show gateway status\n")
	fmt.Printf("  whoami                                    - Print the caller address for REGISTRY_KEY\n")
	fmt.Printf("  keygen                                    - Generate a new signing key\n")
	fmt.Printf("  list                                      - List all library names\n")
	fmt.Printf("  info <name>                               - Show a library record\n")
	fmt.Printf("  register <name> [flags]                   - Register a library (--private --desc --lang --tags)\n")
	fmt.Printf("  delete <name>                             - Delete a version-less library\n")
	fmt.Printf("  publish <name> <version> <ref> [dep ...]  - Publish a version\n")
	fmt.Printf("  deprecate <name> <version>                - Deprecate a version\n")
	fmt.Printf("  versions <name>                           - List versions in publish order\n")
	fmt.Printf("  version-info <name> <version>             - Show a version record\n")
	fmt.Printf("  set-license <name> <fee> <required>       - Configure licensing\n")
	fmt.Printf("  purchase <name> <payment>                 - Buy a license\n")
	fmt.Printf("  has-license <name> <address>              - Check license ownership\n")
	fmt.Printf("  authorize <name> <address>                - Grant private access\n")
	fmt.Printf("  revoke <name> <address>                   - Revoke private access\n")
	fmt.Printf("  has-access <name> <address>               - Check effective access\n")
	fmt.Printf("  balance <address>                         - Show a ledger balance\n")
	fmt.Printf("  deposit <address> <amount>                - Credit a balance (admin)\n")
	fmt.Printf("  watch [event-type]                        - Stream events\n")
	fmt.Printf("  version                                   - Print regctl version\n")
}
