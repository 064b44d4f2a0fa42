package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"curator/internal/app"
	curatorclient "curator/internal/client"
	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/store"
	"curator/internal/types"
)

const usageText = `curator organizes a prompt corpus on a remote hub.

Usage:
  curator <command> [flags]

Commands:
  ui       run the terminal UI (default)
  groups   list groups, or manage one (show/create/rename/delete)
  search   similarity search for a prompt text
  brands   list locally stored brand exclusion targets
  balance  show the account balance
  help     show help

Examples:
  curator
  curator groups
  curator groups show 12
  curator search "best running shoes" --k 10
  curator balance
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		exitOnErr("ui", runUI(nil))
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
	case "ui":
		exitOnErr("ui", runUI(args[1:]))
	case "groups":
		exitOnErr("groups", runGroups(args[1:]))
	case "search":
		exitOnErr("search", runSearch(args[1:]))
	case "brands":
		exitOnErr("brands", runBrands(args[1:]))
	case "balance":
		exitOnErr("balance", runBalance(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func runUI(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	hub, err := curatorclient.New()
	if err != nil {
		return err
	}
	if err := checkHub(hub); err != nil {
		return err
	}

	storePath, err := config.StorePath()
	if err != nil {
		return err
	}
	db, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer db.Close()

	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	log, closer, err := logging.NewFile(logPath, logging.ParseLevel(cfg.LogLevel()))
	if err != nil {
		log = logging.Nop()
	} else {
		defer closer.Close()
	}

	return app.Run(hub, cfg, db, log)
}

func runGroups(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "show":
			return runGroupShow(args[1:])
		case "create":
			return runGroupCreate(args[1:])
		case "rename":
			return runGroupRename(args[1:])
		case "delete":
			return runGroupDelete(args[1:])
		}
	}
	fs := flag.NewFlagSet("groups", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	hub, err := curatorclient.New()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	groups, err := hub.ListGroups(ctx)
	if err != nil {
		return err
	}
	printGroups(groups)
	return nil
}

func runGroupShow(args []string) error {
	id, err := parseGroupID(args)
	if err != nil {
		return err
	}
	hub, err := curatorclient.New()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	group, err := hub.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	printGroupDetail(group)
	return nil
}

func runGroupCreate(args []string) error {
	fs := flag.NewFlagSet("groups create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	brandName := fs.String("brand", "", "brand name to attach")
	brandDomain := fs.String("domain", "", "brand domain to attach")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: curator groups create [flags] <title>")
	}
	var brand *types.BrandInfo
	if *brandName != "" || *brandDomain != "" {
		brand = &types.BrandInfo{Name: *brandName, Domain: *brandDomain}
	}

	hub, err := curatorclient.New()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	group, err := hub.CreateGroup(ctx, fs.Arg(0), brand)
	if err != nil {
		return err
	}
	fmt.Printf("created group %d %q\n", group.ID, group.Title)
	return nil
}

func runGroupRename(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: curator groups rename <id> <title>")
	}
	id, err := parseGroupID(args)
	if err != nil {
		return err
	}
	title := args[1]

	hub, err := curatorclient.New()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	group, err := hub.UpdateGroup(ctx, id, curatorclient.UpdateGroupRequest{Title: &title})
	if err != nil {
		return err
	}
	fmt.Printf("renamed group %d to %q\n", group.ID, group.Title)
	return nil
}

func runGroupDelete(args []string) error {
	id, err := parseGroupID(args)
	if err != nil {
		return err
	}
	hub, err := curatorclient.New()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	if err := hub.DeleteGroup(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted group %d\n", id)
	return nil
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	k := fs.Int("k", 8, "number of candidates")
	minSimilarity := fs.Float64("min", 0.3, "minimum similarity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: curator search [flags] <text>")
	}

	hub, err := curatorclient.New()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	resp, err := hub.SearchSimilar(ctx, fs.Arg(0), *k, *minSimilarity)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSIMILARITY\tTEXT")
	for _, match := range resp.Matches {
		fmt.Fprintf(writer, "%d\t%.4f\t%s\n", match.PromptID, match.Similarity, match.PromptText)
	}
	writer.Flush()
	fmt.Printf("%d of %d shown\n", len(resp.Matches), resp.TotalFound)
	return nil
}

func runBrands(args []string) error {
	fs := flag.NewFlagSet("brands", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	storePath, err := config.StorePath()
	if err != nil {
		return err
	}
	db, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if fs.NArg() > 0 {
		list, err := db.BrandList(fs.Arg(0))
		if err != nil {
			return err
		}
		for _, variation := range list.Variations {
			fmt.Println(variation)
		}
		return nil
	}

	targets, err := db.ListBrandTargets()
	if err != nil {
		return err
	}
	for _, target := range targets {
		fmt.Println(target)
	}
	return nil
}

func runBalance(args []string) error {
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	hub, err := curatorclient.New()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	balance, err := hub.GetBalance(ctx)
	if err != nil {
		return err
	}
	price, err := hub.GetGenerationPrice(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("balance: %.2f %s\n", balance.Amount, balance.Currency)
	fmt.Printf("generation price: %.2f %s per topic\n", price.PerTopic, price.Currency)
	return nil
}

func printGroups(groups []*types.Group) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tPROMPTS\tBRAND\tUPDATED")
	for _, group := range groups {
		brand := "-"
		if group.Brand != nil && group.Brand.Name != "" {
			brand = group.Brand.Name
		}
		updated := "-"
		if !group.UpdatedAt.IsZero() {
			updated = group.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(writer, "%d\t%s\t%d\t%s\t%s\n", group.ID, group.Title, len(group.Bindings), brand, updated)
	}
	writer.Flush()
}

func printGroupDetail(group *types.Group) {
	fmt.Printf("group %d: %s\n", group.ID, group.Title)
	if group.Brand != nil && group.Brand.Name != "" {
		fmt.Printf("brand: %s\n", group.Brand.Name)
	}
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "PROMPT\tADDED\tTEXT")
	for _, binding := range group.Bindings {
		added := "-"
		if !binding.AddedAt.IsZero() {
			added = binding.AddedAt.Format("2006-01-02")
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\n", binding.PromptID, added, binding.PromptText)
	}
	writer.Flush()
}

func parseGroupID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("group id required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid group id %q", args[0])
	}
	return id, nil
}

func checkHub(hub *curatorclient.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := hub.Health(ctx); err != nil {
		return fmt.Errorf("hub unreachable: %w", err)
	}
	return nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func exitOnErr(label string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}
