package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/financaspro/finance-core/internal/application/service"
	"github.com/financaspro/finance-core/internal/domain/entity"
	domainsvc "github.com/financaspro/finance-core/internal/domain/service"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		session, err := a.sessions.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s\n", session.User.DisplayName())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the session and the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		a.sessions.Logout()
		fmt.Println("Signed out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		reg := domainsvc.Registration{}
		reg.FirstName, _ = cmd.Flags().GetString("first-name")
		reg.LastName, _ = cmd.Flags().GetString("last-name")
		reg.Username, _ = cmd.Flags().GetString("username")
		reg.Email, _ = cmd.Flags().GetString("email")
		reg.Password, _ = cmd.Flags().GetString("password")

		if err := a.sessions.Register(cmd.Context(), reg); err != nil {
			return err
		}
		fmt.Println("Account created, you can sign in now")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and view state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		session, err := a.sessions.Verify(cmd.Context())
		if err != nil && !errors.Is(err, service.ErrSessionInvalid) {
			return err
		}

		state := a.view.State()
		if session == nil {
			fmt.Println("Not signed in")
		} else {
			fmt.Printf("Signed in as %s %s (@%s)\n",
				session.User.FirstName, session.User.LastName, session.User.Username)
		}
		fmt.Printf("Section: %s\n", state.Section)
		fmt.Printf("Theme: %s\n", a.view.Theme())
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		if err := requireSession(cmd, a); err != nil {
			return err
		}

		kind, _ := cmd.Flags().GetString("type")
		description, _ := cmd.Flags().GetString("description")
		amountRaw, _ := cmd.Flags().GetString("amount")
		category, _ := cmd.Flags().GetString("category")
		dateRaw, _ := cmd.Flags().GetString("date")

		// Decimal comma input is the norm for pt-BR users.
		amount, err := decimal.NewFromString(strings.Replace(amountRaw, ",", ".", 1))
		if err != nil {
			return fmt.Errorf("invalid amount %q", amountRaw)
		}

		date := entity.NewDate(time.Now().Year(), int(time.Now().Month()), time.Now().Day())
		if dateRaw != "" {
			date, err = entity.ParseDate(dateRaw)
			if err != nil {
				return err
			}
		}

		created, err := a.store.Add(cmd.Context(), entity.TransactionDraft{
			Type:        entity.Type(kind),
			Description: description,
			Amount:      amount,
			Category:    category,
			Date:        date,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s %s (%s) — id %s\n",
			created.Type, a.money.Format(created.Amount), created.Description, created.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		if err := requireSession(cmd, a); err != nil {
			return err
		}
		transactions, err := a.store.Load(cmd.Context())
		if err != nil {
			return err
		}
		if len(transactions) == 0 {
			fmt.Println("No transactions found")
			return nil
		}
		for _, tx := range transactions {
			sign := "+"
			if tx.Type == entity.TypeExpense {
				sign = "-"
			}
			fmt.Printf("%s  %s%-12s %-14s %-30s %s\n",
				tx.Date, sign, a.money.Format(tx.Amount), tx.Category, tx.Description, tx.ID)
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		if err := requireSession(cmd, a); err != nil {
			return err
		}

		assumeYes, _ := cmd.Flags().GetBool("yes")
		if !assumeYes && !confirm(fmt.Sprintf("Delete transaction %s?", args[0])) {
			fmt.Println("Aborted")
			return nil
		}
		if err := a.store.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted")
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income, expense and balance totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		if err := requireSession(cmd, a); err != nil {
			return err
		}
		transactions, err := a.store.Load(cmd.Context())
		if err != nil {
			return err
		}

		summary := service.Summarize(transactions)
		fmt.Printf("Income:  %s\n", a.money.Format(summary.Income))
		fmt.Printf("Expense: %s\n", a.money.Format(summary.Expense))
		fmt.Printf("Balance: %s\n", a.money.Format(summary.Balance))

		breakdown := service.ByCategory(transactions, entity.TypeExpense)
		if len(breakdown) > 0 {
			fmt.Println("\nExpenses by category:")
			for _, ct := range breakdown {
				fmt.Printf("  %-14s %s\n", ct.Category, a.money.Format(ct.Total))
			}
		}
		return nil
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show per-month totals for the trailing months",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		if err := requireSession(cmd, a); err != nil {
			return err
		}
		transactions, err := a.store.Load(cmd.Context())
		if err != nil {
			return err
		}

		kind, _ := cmd.Flags().GetString("type")
		months, _ := cmd.Flags().GetInt("months")
		for _, mt := range service.MonthlyTrend(transactions, entity.Type(kind), months, time.Now()) {
			fmt.Printf("%04d-%02d  %s\n", mt.Year, mt.Month, a.money.Format(mt.Total))
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the fixed category sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		types := []entity.Type{entity.TypeIncome, entity.TypeExpense}
		if kind != "" {
			types = []entity.Type{entity.Type(kind)}
		}
		for _, t := range types {
			fmt.Printf("%s:\n", t)
			for _, c := range entity.CategoriesFor(t) {
				fmt.Printf("  %s\n", c)
			}
		}
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or toggle the theme preference",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, ephemeral)
		if err != nil {
			return err
		}
		defer a.close()

		if toggle, _ := cmd.Flags().GetBool("toggle"); toggle {
			fmt.Println(a.view.ToggleTheme())
			return nil
		}
		fmt.Println(a.view.Theme())
		return nil
	},
}

func init() {
	loginCmd.Flags().String("username", "", "account username")
	loginCmd.Flags().String("password", "", "account password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().String("first-name", "", "first name")
	registerCmd.Flags().String("last-name", "", "last name")
	registerCmd.Flags().String("username", "", "account username")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("password", "", "account password")

	addCmd.Flags().String("type", string(entity.TypeExpense), "income or expense")
	addCmd.Flags().String("description", "", "what the transaction was for")
	addCmd.Flags().String("amount", "", "positive amount, e.g. 25,50")
	addCmd.Flags().String("category", "", "category from the fixed set")
	addCmd.Flags().String("date", "", "calendar date YYYY-MM-DD (default today)")
	_ = addCmd.MarkFlagRequired("description")
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("category")

	removeCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	trendCmd.Flags().String("type", string(entity.TypeExpense), "income or expense")
	trendCmd.Flags().Int("months", 6, "trailing months to include")

	categoriesCmd.Flags().String("type", "", "restrict to income or expense")

	themeCmd.Flags().Bool("toggle", false, "switch between light and dark")
}

// requireSession restores and verifies the persisted session. Transient
// verification failures keep any session state; only an explicit backend
// rejection forces sign-in.
func requireSession(cmd *cobra.Command, a *app) error {
	session, err := a.sessions.Verify(cmd.Context())
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			return errors.New("session expired, run `financli login` again")
		}
		return err
	}
	if session == nil {
		return errors.New("not signed in, run `financli login` first")
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
