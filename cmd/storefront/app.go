package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/skylight-sports/storefront/internal/admin"
	"github.com/skylight-sports/storefront/internal/api"
	"github.com/skylight-sports/storefront/internal/cart"
	"github.com/skylight-sports/storefront/internal/checkout"
	"github.com/skylight-sports/storefront/internal/handoff"
	"github.com/skylight-sports/storefront/internal/payment"
	"github.com/skylight-sports/storefront/internal/session"
	"github.com/skylight-sports/storefront/internal/store"
	"github.com/skylight-sports/storefront/internal/tournaments"
	"github.com/skylight-sports/storefront/pkg/config"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
	"github.com/skylight-sports/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// app holds the wired services behind the command dispatch. Everything
// is constructed up front; commands only route arguments.
type app struct {
	api          *api.Client
	sessions     *session.Service
	cart         *cart.Manager
	checkout     *checkout.Service
	tournaments  *tournaments.Service
	flow         *payment.Flow
	confirmation *payment.Confirmation
	admin        *admin.Service
}

func newApp(cfg *config.Config, logg *logger.Logger, localStore *store.Store, sessionID string) (*app, error) {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}

	// The token source reads the store directly so the client and the
	// session service need not know about each other.
	tokenSource := func(ctx context.Context) string {
		var token string
		if found, err := localStore.GetDoc(ctx, "authToken", &token); err != nil || !found {
			return ""
		}
		return token
	}

	apiClient, err := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(httpClient),
		api.WithTokenSource(tokenSource),
	)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewService(apiClient, localStore)
	if err != nil {
		return nil, err
	}
	cartMgr, err := cart.NewManager(localStore)
	if err != nil {
		return nil, err
	}
	box, err := handoff.NewBox(localStore, sessionID)
	if err != nil {
		return nil, err
	}
	checkoutSvc, err := checkout.NewService(cartMgr, apiClient, box, logg)
	if err != nil {
		return nil, err
	}
	tournamentSvc, err := tournaments.NewService(apiClient, box, logg)
	if err != nil {
		return nil, err
	}

	var source payment.ReferenceSource
	if cfg.Gateway.BaseURL != "" {
		source, err = payment.NewGatewaySource(cfg.Gateway.BaseURL, httpClient)
		if err != nil {
			return nil, err
		}
	} else {
		source = &payment.TerminalSource{In: os.Stdin, Out: os.Stdout}
	}

	flow, err := payment.NewFlow(apiClient, box, source, logg)
	if err != nil {
		return nil, err
	}
	confirmation, err := payment.NewConfirmation(box, logg)
	if err != nil {
		return nil, err
	}
	adminSvc, err := admin.NewService(apiClient, sessions)
	if err != nil {
		return nil, err
	}

	return &app{
		api:          apiClient,
		sessions:     sessions,
		cart:         cartMgr,
		checkout:     checkoutSvc,
		tournaments:  tournamentSvc,
		flow:         flow,
		confirmation: confirmation,
		admin:        adminSvc,
	}, nil
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "register":
		return a.runRegister(ctx, args[1:])
	case "login":
		return a.runLogin(ctx, args[1:])
	case "logout":
		return a.sessions.Logout(ctx)
	case "whoami":
		return a.runWhoami(ctx)
	case "products":
		return a.runProducts(ctx)
	case "cart":
		return a.runCart(ctx, args[1:])
	case "checkout":
		return a.runCheckout(ctx, args[1:])
	case "tournaments":
		return a.runTournaments(ctx)
	case "tournament":
		return a.runTournamentDetail(ctx, args[1:])
	case "join":
		return a.runJoin(ctx, args[1:])
	case "pay":
		return a.runPay(ctx)
	case "payment":
		return a.runPayment(ctx, args[1:])
	case "confirm":
		return a.runConfirm(ctx)
	case "order":
		return a.runOrder(ctx, args[1:])
	case "admin":
		return a.runAdmin(ctx, args[1:])
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront <command> [flags]

  register   -email -password          create an account and sign in
  login      -email -password          sign in
  logout                               sign out
  whoami                               show the signed-in user

  products                             list the catalog
  cart       add|remove|set|show|clear manage the cart
  checkout   -name -email -phone -address -city -zip
  order      -id                       show an order

  tournaments                          list tournaments
  tournament -id                       show a tournament and its events
  join       -id -name -email -phone [-academy] [-event]

  pay                                  run the pending payment
  payment    -id                       show a payment record
  confirm                              show the payment confirmation

  admin      <subcommand>              admin-only operations`)
}

func (a *app) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.sessions.Register(ctx, *email, *password)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.sessions.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func (a *app) runWhoami(ctx context.Context) error {
	user, err := a.sessions.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("not signed in")
		return nil
	}
	return printJSON(user)
}

func (a *app) runProducts(ctx context.Context) error {
	products, err := a.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	return printJSON(products)
}

func (a *app) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("cart requires a subcommand: add, remove, set, show, clear")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
		id := fs.String("id", "", "product id")
		qty := fs.Int("qty", 1, "quantity")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		product, err := a.findProduct(ctx, *id)
		if err != nil {
			return err
		}
		return a.cart.Add(ctx, product.ID, product.Name, decimal.NewFromFloat(product.Price), *qty)
	case "remove":
		fs := flag.NewFlagSet("cart remove", flag.ContinueOnError)
		id := fs.String("id", "", "product id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.cart.Remove(ctx, *id)
	case "set":
		fs := flag.NewFlagSet("cart set", flag.ContinueOnError)
		id := fs.String("id", "", "product id")
		qty := fs.Int("qty", 1, "quantity")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.cart.SetQuantity(ctx, *id, *qty)
	case "show":
		items, err := a.cart.Items(ctx)
		if err != nil {
			return err
		}
		total, err := a.cart.Total(ctx)
		if err != nil {
			return err
		}
		if err := printJSON(items); err != nil {
			return err
		}
		fmt.Printf("total: %s\n", total.StringFixed(2))
		return nil
	case "clear":
		return a.cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) findProduct(ctx context.Context, id string) (*api.Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	products, err := a.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (a *app) runCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	name := fs.String("name", "", "customer name")
	email := fs.String("email", "", "contact email")
	phone := fs.String("phone", "", "contact phone")
	address := fs.String("address", "", "shipping address")
	city := fs.String("city", "", "shipping city")
	zip := fs.String("zip", "", "shipping zip code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	result, err := a.checkout.Submit(ctx, checkout.ContactForm{
		CustomerName: *name,
		Email:        *email,
		Phone:        *phone,
		Address:      *address,
		City:         *city,
		ZipCode:      *zip,
	})
	if err != nil {
		return err
	}
	fmt.Printf("order %s created, %s due\n", result.OrderID, result.Total.StringFixed(2))
	fmt.Println("run `storefront pay` to complete payment")
	return nil
}

func (a *app) runOrder(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	id := fs.String("id", "", "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	order, err := a.api.GetOrder(ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(order)
}

func (a *app) runTournaments(ctx context.Context) error {
	listing, err := a.tournaments.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(listing)
}

func (a *app) runTournamentDetail(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tournament", flag.ContinueOnError)
	id := fs.String("id", "", "tournament id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tournament, events, err := a.tournaments.Detail(ctx, *id)
	if err != nil {
		return err
	}
	if err := printJSON(tournament); err != nil {
		return err
	}
	for _, event := range events {
		status := "open"
		if event.Full() {
			status = "full"
		}
		fmt.Printf("event %s  %s (%s)  fee %.2f  %d/%d %s\n",
			event.ID, event.Name, event.Category, event.EntryFee,
			event.CurrentParticipants, event.MaxParticipants, status)
	}
	return nil
}

func (a *app) runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	id := fs.String("id", "", "tournament id")
	name := fs.String("name", "", "participant name")
	email := fs.String("email", "", "participant email")
	phone := fs.String("phone", "", "participant phone")
	academy := fs.String("academy", "", "academy name")
	event := fs.String("event", "", "event/category id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	result, err := a.tournaments.Join(ctx, *id, tournaments.JoinForm{
		Name:            *name,
		Email:           *email,
		Phone:           *phone,
		AcademyName:     *academy,
		SelectedEventID: *event,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered for %s (%s), %s due\n",
		result.TournamentName, result.RegistrationID, result.Amount.StringFixed(2))
	fmt.Println("run `storefront pay` to complete payment")
	return nil
}

func (a *app) runPay(ctx context.Context) error {
	pending, err := a.flow.Load(ctx)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			fmt.Println("nothing to pay")
			return nil
		}
		return err
	}
	fmt.Printf("paying %s for %s %s\n",
		pending.Amount.StringFixed(2), pending.ReferenceType, pending.ReferenceID)

	success, err := a.flow.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("payment %s verified\n", success.PaymentID)
	fmt.Println("run `storefront confirm` for the receipt")
	return nil
}

func (a *app) runPayment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("payment", flag.ContinueOnError)
	id := fs.String("id", "", "payment id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	record, err := a.api.GetPayment(ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(record)
}

func (a *app) runConfirm(ctx context.Context) error {
	success, err := a.confirmation.Show(ctx)
	if err != nil {
		return err
	}
	if success == nil {
		fmt.Println("no recent payment to confirm")
		return nil
	}
	return printJSON(success)
}

func printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
