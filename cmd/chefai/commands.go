package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/chefai/chefai/internal/application/ai"
	"github.com/chefai/chefai/internal/domain/recipe"
	"github.com/chefai/chefai/internal/domain/view"
	"github.com/chefai/chefai/internal/ports/inbound"
	"github.com/chefai/chefai/pkg/healthcheck"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errSignedOut = stderrors.New("sign in first with: chefai login <email>")

type cli struct {
	svc    inbound.ChefService
	health *healthcheck.HealthCheck
	in     io.Reader
	out    io.Writer
}

func newCLI(svc inbound.ChefService, health *healthcheck.HealthCheck, in io.Reader, out io.Writer) *cli {
	return &cli{svc: svc, health: health, in: in, out: out}
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return exitUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami(ctx)
	case "recipe":
		return c.recipe(ctx, rest)
	case "calories":
		return c.calories(ctx, rest)
	case "identify":
		return c.identify(ctx, rest)
	case "chat":
		return c.chat(ctx)
	case "saved":
		return c.saved(ctx)
	case "rate":
		return c.rate(ctx, rest)
	case "status":
		return c.status(ctx, rest)
	default:
		c.printf("unknown command %q\n", name)
		return exitUsage
	}
}

func (c *cli) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// enter leaves the splash screen and opens target, which needs a session.
func (c *cli) enter(ctx context.Context, target view.AppView) error {
	next, err := c.svc.CompleteSplash(ctx)
	if err != nil {
		return err
	}
	if next == view.SignIn && target.RequiresSession() {
		return errSignedOut
	}
	return c.svc.Navigate(target)
}

func (c *cli) login(ctx context.Context, args []string) int {
	email := strings.Join(args, " ")

	next, err := c.svc.CompleteSplash(ctx)
	if err != nil {
		c.printf("%v\n", err)
		return exitError
	}
	if next == view.SignIn {
		err = c.svc.SignIn(ctx, email)
	} else {
		c.svc.Login(ctx, email)
	}
	if err != nil {
		c.printf("%v\n", err)
		return exitError
	}

	current, ok := c.svc.CurrentEmail(ctx)
	if !ok {
		c.printf("Please enter an email to continue.\n")
		return exitUsage
	}
	c.printf("Signed in as %s\n", current)
	return exitOK
}

func (c *cli) logout(ctx context.Context) int {
	next, err := c.svc.CompleteSplash(ctx)
	if err != nil {
		c.printf("%v\n", err)
		return exitError
	}
	if next == view.SignIn {
		c.svc.Logout(ctx)
	} else if err := c.svc.SignOut(ctx); err != nil {
		c.printf("%v\n", err)
		return exitError
	}
	c.printf("Signed out\n")
	return exitOK
}

func (c *cli) whoami(ctx context.Context) int {
	if email, ok := c.svc.CurrentEmail(ctx); ok {
		c.printf("%s\n", email)
		return exitOK
	}
	c.printf("anonymous\n")
	return exitOK
}

func (c *cli) recipe(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("recipe", flag.ContinueOnError)
	fs.SetOutput(c.out)
	pantry := fs.Bool("pantry", false, "use the pantry preference preset")
	save := fs.Bool("save", false, "save the recipe to your collection")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	ingredients := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(ingredients) == "" {
		c.printf("Tell me what ingredients you have.\n")
		return exitUsage
	}

	target, preferences := view.Home, ai.PreferenceHome
	if *pantry {
		target, preferences = view.Vision, ai.PreferencePantry
	}
	if err := c.enter(ctx, target); err != nil {
		c.printf("%v\n", err)
		return exitError
	}

	r := c.svc.GenerateRecipe(ctx, ingredients, preferences)
	if r == nil {
		c.printf("Chef couldn't come up with a recipe this time. Please try again.\n")
		return exitError
	}
	c.printRecipe(*r)

	if *save {
		if recipe.ContainsTitle(c.svc.ListRecipes(ctx), *r) {
			c.printf("\n%q is already in your collection.\n", r.Title)
			return exitOK
		}
		if !c.svc.SaveRecipe(ctx, *r) {
			c.printf("\nCouldn't save %q. Please try again.\n", r.Title)
			return exitError
		}
		c.printf("\nSaved to your collection.\n")
	}
	return exitOK
}

func (c *cli) printRecipe(r recipe.Recipe) {
	c.printf("%s\n", r.Title)
	if r.Description != "" {
		c.printf("%s\n", r.Description)
	}
	c.printf("Time: %s  Difficulty: %s", r.CookingTime, r.Difficulty)
	if r.HasCalories() {
		c.printf("  Calories: %s", r.Calories)
	}
	c.printf("\n\nIngredients:\n")
	for _, ingredient := range r.Ingredients {
		c.printf("  - %s\n", ingredient)
	}
	c.printf("\nInstructions:\n")
	for i, step := range r.Instructions {
		c.printf("  %d. %s\n", i+1, step)
	}
}

func (c *cli) calories(ctx context.Context, args []string) int {
	if len(args) != 1 {
		c.printf("usage: chefai calories <image>\n")
		return exitUsage
	}
	image, err := readImage(args[0])
	if err != nil {
		c.printf("%v\n", err)
		return exitError
	}
	if err := c.enter(ctx, view.Vision); err != nil {
		c.printf("%v\n", err)
		return exitError
	}

	items := c.svc.AnalyzeCalories(ctx, image)
	if len(items) == 0 {
		c.printf("No food detected.\n")
		return exitOK
	}
	for _, item := range items {
		c.printf("%s: %s", item.Name, item.Calories)
		if item.Protein != "" || item.Carbs != "" || item.Fat != "" {
			c.printf(" (protein %s, carbs %s, fat %s)", orDash(item.Protein), orDash(item.Carbs), orDash(item.Fat))
		}
		c.printf("\n")
	}
	return exitOK
}

func (c *cli) identify(ctx context.Context, args []string) int {
	if len(args) == 0 {
		c.printf("usage: chefai identify <image> [question]\n")
		return exitUsage
	}
	image, err := readImage(args[0])
	if err != nil {
		c.printf("%v\n", err)
		return exitError
	}
	if err := c.enter(ctx, view.Vision); err != nil {
		c.printf("%v\n", err)
		return exitError
	}

	c.printf("%s\n", c.svc.IdentifyDish(ctx, image, strings.Join(args[1:], " ")))
	return exitOK
}

func (c *cli) chat(ctx context.Context) int {
	if err := c.enter(ctx, view.Chat); err != nil {
		c.printf("%v\n", err)
		return exitError
	}

	c.printf("Chef AI is listening. Type \"exit\" to leave.\n")
	var history []recipe.ChatMessage
	scanner := bufio.NewScanner(c.in)
	for {
		c.printf("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply := c.svc.Chat(ctx, history, line)
		history = append(history,
			recipe.NewChatMessage(recipe.ChatRoleUser, line),
			recipe.NewChatMessage(recipe.ChatRoleModel, reply),
		)
		c.printf("%s\n", reply)

		if ctx.Err() != nil {
			break
		}
	}
	c.printf("\n")
	return exitOK
}

func (c *cli) saved(ctx context.Context) int {
	if err := c.enter(ctx, view.Saved); err != nil {
		c.printf("%v\n", err)
		return exitError
	}

	recipes := c.svc.ListRecipes(ctx)
	if len(recipes) == 0 {
		c.printf("No saved recipes yet.\n")
		return exitOK
	}
	for i, r := range recipes {
		c.printf("%d. %s (%s, %s)\n", i+1, r.Title, r.CookingTime, r.Difficulty)
	}
	return exitOK
}

func (c *cli) rate(ctx context.Context, args []string) int {
	if len(args) != 1 {
		c.printf("usage: chefai rate <1-5>\n")
		return exitUsage
	}
	value, err := strconv.Atoi(args[0])
	if err != nil || value < recipe.MinRating || value > recipe.MaxRating {
		c.printf("Rating must be a whole number from %d to %d.\n", recipe.MinRating, recipe.MaxRating)
		return exitUsage
	}

	if !c.svc.SubmitRating(ctx, value) {
		c.printf("Could not save your rating. Please try again.\n")
		return exitError
	}
	c.printf("Thanks for rating Chef AI %d/%d! (%d ratings so far)\n",
		value, recipe.MaxRating, len(c.svc.Ratings(ctx)))
	return exitOK
}

func (c *cli) status(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(c.out)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	response := c.health.Check(ctx)
	if *asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(response); err != nil {
			c.printf("%v\n", err)
			return exitError
		}
	} else {
		for _, check := range response.Checks {
			c.printf("%-8s %-9s %s\n", check.Name, check.Status, check.Message)
		}
		c.printf("overall: %s\n", response.Status)
	}

	if response.Status == healthcheck.StatusUnhealthy {
		return exitError
	}
	return exitOK
}

// readImage loads a photo and returns it as a data URI.
func readImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mimeType)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
