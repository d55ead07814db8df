package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/skylight-sports/storefront/internal/admin"
	"github.com/skylight-sports/storefront/internal/api"
)

func (a *app) runAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		adminUsage()
		return nil
	}

	switch args[0] {
	case "stats":
		stats, err := a.admin.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)
	case "products":
		products, err := a.admin.ListProducts(ctx)
		if err != nil {
			return err
		}
		return printJSON(products)
	case "product-create":
		return a.runAdminProductCreate(ctx, args[1:])
	case "product-update":
		return a.runAdminProductUpdate(ctx, args[1:])
	case "product-delete":
		return a.runAdminDelete(ctx, args[1:], a.admin.DeleteProduct)
	case "tournaments":
		listing, err := a.admin.ListTournaments(ctx)
		if err != nil {
			return err
		}
		return printJSON(listing)
	case "tournament-create":
		return a.runAdminTournamentCreate(ctx, args[1:])
	case "tournament-update":
		return a.runAdminTournamentUpdate(ctx, args[1:])
	case "tournament-settings":
		return a.runAdminTournamentSettings(ctx, args[1:])
	case "tournament-delete":
		return a.runAdminDelete(ctx, args[1:], a.admin.DeleteTournament)
	case "registrations":
		fs := flag.NewFlagSet("admin registrations", flag.ContinueOnError)
		id := fs.String("id", "", "tournament id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		registrations, err := a.admin.Registrations(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(registrations)
	case "event-add":
		return a.runAdminEventAdd(ctx, args[1:])
	case "event-update":
		return a.runAdminEventUpdate(ctx, args[1:])
	case "event-delete":
		return a.runAdminDelete(ctx, args[1:], a.admin.DeleteEvent)
	case "bracket-create":
		return a.runAdminBracketCreate(ctx, args[1:])
	case "bracket":
		fs := flag.NewFlagSet("admin bracket", flag.ContinueOnError)
		id := fs.String("id", "", "tournament id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		bracket, err := a.admin.Bracket(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(bracket)
	case "match-record":
		return a.runAdminMatchRecord(ctx, args[1:])
	default:
		adminUsage()
		return fmt.Errorf("unknown admin subcommand %q", args[0])
	}
}

func adminUsage() {
	fmt.Fprintln(os.Stderr, `usage: storefront admin <subcommand> [flags]

  stats
  products
  product-create     -name -price -stock [-category] [-description] [-image path]
  product-update     -id ...
  product-delete     -id
  tournaments
  tournament-create  -name -venue -start-date -start-time -end-date -end-time
                     -price -capacity [-status] [-description] [-gmaps] [-poster path]
  tournament-update  -id ...
  tournament-settings -id [-accept-entries true|false] [-bracket '<json>']
  tournament-delete  -id
  registrations      -id
  event-add          -tournament -name [-category] -fee -max
  event-update       -id -name [-category] -fee -max
  event-delete       -id
  bracket-create     -tournament -data '<json>'
  bracket            -id
  match-record       -bracket -data '<json>'`)
}

func productFlags(fs *flag.FlagSet) (*admin.ProductForm, *string) {
	form := &admin.ProductForm{}
	fs.StringVar(&form.Name, "name", "", "product name")
	fs.StringVar(&form.Description, "description", "", "product description")
	fs.Float64Var(&form.Price, "price", 0, "unit price")
	fs.IntVar(&form.Stock, "stock", 0, "stock on hand")
	fs.StringVar(&form.Category, "category", "", "product category")
	image := fs.String("image", "", "path to product image")
	return form, image
}

func tournamentFlags(fs *flag.FlagSet) (*admin.TournamentForm, *string) {
	form := &admin.TournamentForm{}
	fs.StringVar(&form.Name, "name", "", "tournament name")
	fs.StringVar(&form.Description, "description", "", "tournament description")
	fs.StringVar(&form.Venue, "venue", "", "venue")
	fs.StringVar(&form.GmapsLink, "gmaps", "", "maps link")
	fs.StringVar(&form.StartDate, "start-date", "", "start date")
	fs.StringVar(&form.StartTime, "start-time", "", "start time")
	fs.StringVar(&form.EndDate, "end-date", "", "end date")
	fs.StringVar(&form.EndTime, "end-time", "", "end time")
	fs.Float64Var(&form.Price, "price", 0, "entry price")
	fs.StringVar(&form.Status, "status", "", "tournament status")
	fs.IntVar(&form.Capacity, "capacity", 0, "participant capacity")
	poster := fs.String("poster", "", "path to poster image")
	return form, poster
}

func eventFlags(fs *flag.FlagSet) *admin.EventForm {
	form := &admin.EventForm{}
	fs.StringVar(&form.Name, "name", "", "event name")
	fs.StringVar(&form.Category, "category", "", "event category")
	fs.Float64Var(&form.EntryFee, "fee", 0, "entry fee")
	fs.IntVar(&form.MaxParticipants, "max", 0, "max participants")
	return form
}

// openUpload reads the file at path into a multipart upload. The caller
// gets nil for an empty path, the create-without-image case.
func openUpload(field, path string) (*api.FileUpload, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	upload := &api.FileUpload{
		Field:   field,
		Name:    filepath.Base(path),
		Content: f,
	}
	return upload, func() { _ = f.Close() }, nil
}

func (a *app) runAdminProductCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin product-create", flag.ContinueOnError)
	form, imagePath := productFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	image, closeUpload, err := openUpload("image", *imagePath)
	if err != nil {
		return err
	}
	defer closeUpload()
	product, err := a.admin.CreateProduct(ctx, *form, image)
	if err != nil {
		return err
	}
	return printJSON(product)
}

func (a *app) runAdminProductUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin product-update", flag.ContinueOnError)
	id := fs.String("id", "", "product id")
	form, imagePath := productFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	image, closeUpload, err := openUpload("image", *imagePath)
	if err != nil {
		return err
	}
	defer closeUpload()
	product, err := a.admin.UpdateProduct(ctx, *id, *form, image)
	if err != nil {
		return err
	}
	return printJSON(product)
}

func (a *app) runAdminTournamentCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin tournament-create", flag.ContinueOnError)
	form, posterPath := tournamentFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	poster, closeUpload, err := openUpload("poster", *posterPath)
	if err != nil {
		return err
	}
	defer closeUpload()
	tournament, err := a.admin.CreateTournament(ctx, *form, poster)
	if err != nil {
		return err
	}
	return printJSON(tournament)
}

func (a *app) runAdminTournamentUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin tournament-update", flag.ContinueOnError)
	id := fs.String("id", "", "tournament id")
	form, posterPath := tournamentFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	poster, closeUpload, err := openUpload("poster", *posterPath)
	if err != nil {
		return err
	}
	defer closeUpload()
	tournament, err := a.admin.UpdateTournament(ctx, *id, *form, poster)
	if err != nil {
		return err
	}
	return printJSON(tournament)
}

func (a *app) runAdminTournamentSettings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin tournament-settings", flag.ContinueOnError)
	id := fs.String("id", "", "tournament id")
	accept := fs.String("accept-entries", "", "true to open entries, false to close")
	data := fs.String("bracket", "", "bracket structure as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	var acceptEntries *bool
	if *accept != "" {
		v, err := strconv.ParseBool(*accept)
		if err != nil {
			return errors.New("-accept-entries must be true or false")
		}
		acceptEntries = &v
	}
	var bracket json.RawMessage
	if *data != "" {
		if !json.Valid([]byte(*data)) {
			return errors.New("-bracket must be valid JSON")
		}
		bracket = json.RawMessage(*data)
	}
	tournament, err := a.admin.UpdateTournamentSettings(ctx, *id, acceptEntries, bracket)
	if err != nil {
		return err
	}
	return printJSON(tournament)
}

func (a *app) runAdminDelete(ctx context.Context, args []string, del func(context.Context, string) error) error {
	fs := flag.NewFlagSet("admin delete", flag.ContinueOnError)
	id := fs.String("id", "", "resource id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	return del(ctx, *id)
}

func (a *app) runAdminEventAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin event-add", flag.ContinueOnError)
	tournamentID := fs.String("tournament", "", "tournament id")
	form := eventFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tournamentID == "" {
		return errors.New("-tournament is required")
	}
	event, err := a.admin.AddEvent(ctx, *tournamentID, *form)
	if err != nil {
		return err
	}
	return printJSON(event)
}

func (a *app) runAdminEventUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin event-update", flag.ContinueOnError)
	id := fs.String("id", "", "event id")
	form := eventFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	event, err := a.admin.UpdateEvent(ctx, *id, *form)
	if err != nil {
		return err
	}
	return printJSON(event)
}

func (a *app) runAdminBracketCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin bracket-create", flag.ContinueOnError)
	tournamentID := fs.String("tournament", "", "tournament id")
	data := fs.String("data", "", "bracket structure as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tournamentID == "" {
		return errors.New("-tournament is required")
	}
	if !json.Valid([]byte(*data)) {
		return errors.New("-data must be valid JSON")
	}
	bracket, err := a.admin.CreateBracket(ctx, *tournamentID, json.RawMessage(*data))
	if err != nil {
		return err
	}
	return printJSON(bracket)
}

func (a *app) runAdminMatchRecord(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin match-record", flag.ContinueOnError)
	bracketID := fs.String("bracket", "", "bracket id")
	data := fs.String("data", "", "match result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bracketID == "" {
		return errors.New("-bracket is required")
	}
	if !json.Valid([]byte(*data)) {
		return errors.New("-data must be valid JSON")
	}
	return a.admin.RecordMatch(ctx, *bracketID, json.RawMessage(*data))
}
