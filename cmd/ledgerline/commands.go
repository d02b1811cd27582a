package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	authdomain "github.com/smallbiznis/ledgerline/internal/auth/domain"
	"github.com/smallbiznis/ledgerline/internal/clock"
	companydomain "github.com/smallbiznis/ledgerline/internal/company/domain"
	"github.com/smallbiznis/ledgerline/internal/document"
	itemdomain "github.com/smallbiznis/ledgerline/internal/item/domain"
	partydomain "github.com/smallbiznis/ledgerline/internal/party/domain"
	"github.com/smallbiznis/ledgerline/internal/printing"
	purchasedomain "github.com/smallbiznis/ledgerline/internal/purchase/domain"
	quotationdomain "github.com/smallbiznis/ledgerline/internal/quotation/domain"
	"github.com/smallbiznis/ledgerline/internal/rbac"
	reportdomain "github.com/smallbiznis/ledgerline/internal/report/domain"
	returnsdomain "github.com/smallbiznis/ledgerline/internal/returns/domain"
	saledomain "github.com/smallbiznis/ledgerline/internal/sale/domain"
	saleservice "github.com/smallbiznis/ledgerline/internal/sale/service"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/smallbiznis/ledgerline/internal/store"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"golang.org/x/term"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store credentials locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "prompted when omitted"},
		},
		Action: func(c *cli.Context) error {
			email := c.String("email")
			password := c.String("password")
			if password == "" {
				fmt.Fprint(os.Stderr, "password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return err
				}
				password = string(raw)
			}
			return runOneShot(fx.Invoke(func(svc authdomain.Service) error {
				ctx, cancel := commandContext()
				defer cancel()
				creds, err := svc.Login(ctx, email, password)
				if err != nil {
					return err
				}
				fmt.Printf("signed in as %s (%s)\n", creds.DisplayName, creds.Email)
				return nil
			}))
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "revoke the session and clear stored credentials",
		Action: func(c *cli.Context) error {
			return runOneShot(fx.Invoke(func(svc authdomain.Service) error {
				ctx, cancel := commandContext()
				defer cancel()
				if err := svc.Logout(ctx); err != nil {
					return err
				}
				fmt.Println("signed out")
				return nil
			}))
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the stored identity",
		Action: func(c *cli.Context) error {
			return runOneShot(fx.Invoke(func(svc authdomain.Service) error {
				ctx, cancel := commandContext()
				defer cancel()
				creds, err := svc.Current(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("%s <%s> role=%s\n", creds.DisplayName, creds.Email, creds.Role)
				return nil
			}))
		},
	}
}

func companiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "companies",
		Usage: "list companies",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cursor", Usage: "page cursor from a previous run"},
		},
		Action: func(c *cli.Context) error {
			return runOneShot(fx.Invoke(func(svc companydomain.Service) error {
				ctx, cancel := commandContext()
				defer cancel()
				page, err := svc.List(ctx, c.String("cursor"))
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tNAME\tCURRENCY\tTIMEZONE\tTAX")
				for _, co := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s%%\n",
						co.ID, co.Name, co.Currency, co.Timezone, co.TaxName, co.TaxPercent)
				}
				return flushTable(w, page.HasNextPage, page.NextPageCursor)
			}))
		},
	}
}

func branchesCommand() *cli.Command {
	return &cli.Command{
		Name:  "branches",
		Usage: "list a company's branches",
		Flags: []cli.Flag{
			companyFlag(),
			&cli.StringFlag{Name: "cursor"},
		},
		Action: func(c *cli.Context) error {
			return runOneShot(fx.Invoke(func(svc companydomain.Service) error {
				ctx, cancel := commandContext()
				defer cancel()
				page, err := svc.Branches(ctx, c.String("company"), c.String("cursor"))
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tNAME\tADDRESS")
				for _, b := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Name, b.Address)
				}
				return flushTable(w, page.HasNextPage, page.NextPageCursor)
			}))
		},
	}
}

func partiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "parties",
		Usage: "list customers or vendors",
		Flags: []cli.Flag{
			companyFlag(),
			&cli.StringFlag{Name: "kind", Value: "customer", Usage: "customer or vendor"},
			&cli.StringFlag{Name: "query", Usage: "search term"},
			&cli.StringFlag{Name: "cursor"},
		},
		Action: func(c *cli.Context) error {
			return runOneShot(fx.Invoke(func(svc partydomain.Service) error {
				ctx, cancel := commandContext()
				defer cancel()
				page, err := svc.List(ctx, c.String("company"),
					partydomain.Kind(c.String("kind")), c.String("cursor"), c.String("query"))
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tNAME\tPHONE\tALLOWANCE DAYS")
				for _, p := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
						p.ID, p.DisplayName, p.Phone, p.PaymentAllowanceDays)
				}
				return flushTable(w, page.HasNextPage, page.NextPageCursor)
			}))
		},
	}
}

func itemsCommand() *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "catalog and stock",
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.StringFlag{Name: "branch"},
					&cli.StringFlag{Name: "query"},
					&cli.StringFlag{Name: "cursor"},
				},
				Action: func(c *cli.Context) error {
					return runOneShot(fx.Invoke(func(svc itemdomain.Service) error {
						ctx, cancel := commandContext()
						defer cancel()
						page, err := svc.List(ctx, c.String("company"), c.String("branch"),
							c.String("cursor"), c.String("query"))
						if err != nil {
							return err
						}
						w := newTable()
						fmt.Fprintln(w, "ID\tNAME\tSALE PRICE\tPURCHASE PRICE\tSTOCK")
						for _, it := range page.Items {
							fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
								it.ID, it.Name, it.SalePrice, it.PurchasePrice, it.StockOnHand)
						}
						return flushTable(w, page.HasNextPage, page.NextPageCursor)
					}))
				},
			},
			{
				Name:  "adjust",
				Usage: "correct stock on hand for one item",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.StringFlag{Name: "branch", Required: true},
					&cli.StringFlag{Name: "item", Required: true},
					&cli.Float64Flag{Name: "delta", Required: true, Usage: "positive adds, negative removes"},
					&cli.StringFlag{Name: "reason", Required: true},
				},
				Action: func(c *cli.Context) error {
					return runOneShot(
						sessionOption(c.String("company"), c.String("branch")),
						fx.Invoke(func(sess session.Context, gate rbac.Service, svc itemdomain.Service) error {
							ctx, cancel := commandContext()
							defer cancel()
							if err := gate.Authorize(ctx, sess, rbac.ObjectStock, rbac.ActionStockAdjust); err != nil {
								return err
							}
							err := svc.AdjustStock(ctx, itemdomain.AdjustStockRequest{
								CompanyID: sess.Company.ID,
								BranchID:  c.String("branch"),
								ItemID:    c.String("item"),
								Delta:     c.Float64("delta"),
								Reason:    c.String("reason"),
							})
							if err != nil {
								return err
							}
							fmt.Println("stock adjusted")
							return nil
						}),
					)
				},
			},
			{
				Name:  "transfer",
				Usage: "move stock between branches",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.StringFlag{Name: "from", Required: true, Usage: "source branch id"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "destination branch id"},
					&cli.StringSliceFlag{Name: "line", Required: true, Usage: "itemID=quantity, repeatable"},
					&cli.StringFlag{Name: "note"},
				},
				Action: func(c *cli.Context) error {
					return runOneShot(
						sessionOption(c.String("company"), c.String("from")),
						fx.Invoke(func(sess session.Context, gate rbac.Service, svc itemdomain.Service) error {
							ctx, cancel := commandContext()
							defer cancel()
							if err := gate.Authorize(ctx, sess, rbac.ObjectTransfer, rbac.ActionTransferCreate); err != nil {
								return err
							}
							var lines []itemdomain.TransferItem
							for _, pair := range c.StringSlice("line") {
								itemID, qty, err := parsePair(pair)
								if err != nil {
									return err
								}
								lines = append(lines, itemdomain.TransferItem{
									ItemID:   itemID,
									Quantity: qty.InexactFloat64(),
								})
							}
							err := svc.Transfer(ctx, itemdomain.TransferRequest{
								CompanyID:    sess.Company.ID,
								FromBranchID: c.String("from"),
								ToBranchID:   c.String("to"),
								Items:        lines,
								Note:         c.String("note"),
							})
							if err != nil {
								return err
							}
							fmt.Println("transfer created")
							return nil
						}),
					)
				},
			},
		},
	}
}

func salesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sales",
		Usage: "sale invoices",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Flags: []cli.Flag{companyFlag(), &cli.StringFlag{Name: "query"}, &cli.StringFlag{Name: "cursor"}},
				Action: func(c *cli.Context) error {
					return runOneShot(fx.Invoke(func(svc saledomain.Service) error {
						ctx, cancel := commandContext()
						defer cancel()
						page, err := svc.List(ctx, c.String("company"), c.String("cursor"), c.String("query"))
						if err != nil {
							return err
						}
						w := newTable()
						fmt.Fprintln(w, "ID\tNUMBER\tPARTY\tDATE\tTOTAL\tDUE")
						for _, inv := range page.Items {
							fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.2f\n",
								inv.ID, inv.InvoiceNumber, inv.PartyName, inv.Date,
								inv.TotalAfterTax, inv.AmountDue)
						}
						return flushTable(w, page.HasNextPage, page.NextPageCursor)
					}))
				},
			},
			{
				Name:  "create",
				Usage: "submit a sale built from flags",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.StringFlag{Name: "party", Required: true, Usage: "customer id"},
					&cli.StringSliceFlag{Name: "line", Required: true, Usage: "itemID=quantity, repeatable"},
					&cli.StringFlag{Name: "discount", Usage: "flat discount amount"},
					&cli.BoolFlag{Name: "credit", Usage: "credit sale (unpaid, due date applies)"},
					&cli.StringFlag{Name: "paid", Usage: "amount received on a credit sale"},
				},
				Action: func(c *cli.Context) error {
					return runOneShot(
						sessionOption(c.String("company"), ""),
						fx.Invoke(func(sess session.Context, gate rbac.Service, sales saledomain.Service, parties partydomain.Service, items itemdomain.Service, clk clock.Clock) error {
							ctx, cancel := commandContext()
							defer cancel()
							if err := gate.Authorize(ctx, sess, rbac.ObjectSale, rbac.ActionCreate); err != nil {
								return err
							}
							customer, err := parties.Get(ctx, c.String("party"), sess.Company.ID)
							if err != nil {
								return err
							}
							form := saledomain.NewForm(sess, *customer, clk)
							if err := addLines(ctx, form.AddItem, items, sess.Company.ID, c.StringSlice("line")); err != nil {
								return err
							}
							form.SetCredit(c.Bool("credit"))
							if d := c.String("discount"); d != "" {
								form.SetDiscount(d)
							}
							if p := c.String("paid"); p != "" {
								form.SetAmountPaid(p)
							}
							inv, err := sales.Submit(ctx, form)
							if err != nil {
								return err
							}
							fmt.Printf("sale %s created, total %.2f, due %.2f\n",
								inv.InvoiceNumber, inv.TotalAfterTax, inv.AmountDue)
							return nil
						}),
					)
				},
			},
			{
				Name:  "draft",
				Usage: "build a sale from flags and save it locally without submitting",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.StringFlag{Name: "party", Required: true, Usage: "customer id"},
					&cli.StringSliceFlag{Name: "line", Required: true, Usage: "itemID=quantity, repeatable"},
					&cli.StringFlag{Name: "discount"},
					&cli.BoolFlag{Name: "credit"},
				},
				Action: func(c *cli.Context) error {
					return runOneShot(
						sessionOption(c.String("company"), ""),
						fx.Invoke(func(sess session.Context, st *store.Store, parties partydomain.Service, items itemdomain.Service, clk clock.Clock) error {
							ctx, cancel := commandContext()
							defer cancel()
							customer, err := parties.Get(ctx, c.String("party"), sess.Company.ID)
							if err != nil {
								return err
							}
							form := saledomain.NewForm(sess, *customer, clk)
							if err := addLines(ctx, form.AddItem, items, sess.Company.ID, c.StringSlice("line")); err != nil {
								return err
							}
							form.SetCredit(c.Bool("credit"))
							if d := c.String("discount"); d != "" {
								form.SetDiscount(d)
							}
							req, err := saleservice.BuildRequest(form)
							if err != nil {
								return err
							}
							payload, err := json.Marshal(req)
							if err != nil {
								return err
							}
							id, err := st.SaveDraft(ctx, "", "sale", sess.Company.ID, string(payload))
							if err != nil {
								return err
							}
							fmt.Printf("draft %s saved\n", id)
							return nil
						}),
					)
				},
			},
			{
				Name:  "pdf",
				Usage: "render a sale invoice to PDF",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.StringFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "out", Value: "sale.pdf"},
				},
				Action: func(c *cli.Context) error {
					return runOneShot(
						sessionOption(c.String("company"), ""),
						fx.Invoke(func(sess session.Context, sales saledomain.Service, items itemdomain.Service, pdf *printing.PDFRenderer) error {
							ctx, cancel := commandContext()
							defer cancel()
							inv, err := sales.Get(ctx, c.String("id"), sess.Company.ID)
							if err != nil {
								return err
							}
							doc := printing.FromWire(printing.KindSale, inv.InvoiceNumber, sess,
								inv.PartyName, inv.Date, inv.Items,
								itemNames(ctx, items, sess.Company.ID, inv.Items), inv.WireTotals)
							return writePDF(ctx, pdf, doc, c.String("out"))
						}),
					)
				},
			},
		},
	}
}

func purchasesCommand() *cli.Command {
	return &cli.Command{
		Name:  "purchases",
		Usage: "purchase invoices",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Flags: []cli.Flag{companyFlag(), &cli.StringFlag{Name: "query"}, &cli.StringFlag{Name: "cursor"}},
				Action: func(c *cli.Context) error {
					return runOneShot(fx.Invoke(func(svc purchasedomain.Service) error {
						ctx, cancel := commandContext()
						defer cancel()
						page, err := svc.List(ctx, c.String("company"), c.String("cursor"), c.String("query"))
						if err != nil {
							return err
						}
						w := newTable()
						fmt.Fprintln(w, "ID\tNUMBER\tPARTY\tDATE\tTOTAL\tDUE")
						for _, inv := range page.Items {
							fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.2f\n",
								inv.ID, inv.InvoiceNumber, inv.PartyName, inv.Date,
								inv.TotalAfterTax, inv.AmountDue)
						}
						return flushTable(w, page.HasNextPage, page.NextPageCursor)
					}))
				},
			},
		},
	}
}

func quotationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "quotations",
		Usage: "quotations",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Flags: []cli.Flag{companyFlag(), &cli.StringFlag{Name: "query"}, &cli.StringFlag{Name: "cursor"}},
				Action: func(c *cli.Context) error {
					return runOneShot(fx.Invoke(func(svc quotationdomain.Service) error {
						ctx, cancel := commandContext()
						defer cancel()
						page, err := svc.List(ctx, c.String("company"), c.String("cursor"), c.String("query"))
						if err != nil {
							return err
						}
						w := newTable()
						fmt.Fprintln(w, "ID\tNUMBER\tPARTY\tVALID UNTIL\tTOTAL")
						for _, q := range page.Items {
							fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\n",
								q.ID, q.QuotationNumber, q.PartyName, q.ValidUntil, q.TotalAfterTax)
						}
						return flushTable(w, page.HasNextPage, page.NextPageCursor)
					}))
				},
			},
		},
	}
}

func returnsCommand() *cli.Command {
	unitsFlag := &cli.StringSliceFlag{
		Name:     "units",
		Required: true,
		Usage:    "itemID=unitsReturned, repeatable",
	}
	submit := func(c *cli.Context, kind returnsdomain.Kind) error {
		return runOneShot(
			sessionOption(c.String("company"), ""),
			fx.Invoke(func(sess session.Context, gate rbac.Service, svc returnsdomain.Service) error {
				ctx, cancel := commandContext()
				defer cancel()

				object := rbac.ObjectSaleReturn
				if kind == returnsdomain.KindPurchaseReturn {
					object = rbac.ObjectPurchaseReturn
				}
				if err := gate.Authorize(ctx, sess, object, rbac.ActionCreate); err != nil {
					return err
				}

				var form *returnsdomain.Form
				var err error
				if kind == returnsdomain.KindSaleReturn {
					form, err = svc.FormForSale(ctx, c.String("original"), sess)
				} else {
					form, err = svc.FormForPurchase(ctx, c.String("original"), sess)
				}
				if err != nil {
					return err
				}
				for _, pair := range c.StringSlice("units") {
					itemID, qty, err := parsePair(pair)
					if err != nil {
						return err
					}
					if err := form.SetUnitsReturned(itemID, qty); err != nil {
						return fmt.Errorf("%s: %w", itemID, err)
					}
				}
				ret, err := svc.Submit(ctx, form)
				if err != nil {
					return err
				}
				fmt.Printf("return %s created, total %.2f\n", ret.ReturnNumber, ret.TotalAfterTax)
				return nil
			}),
		)
	}
	return &cli.Command{
		Name:  "returns",
		Usage: "create returns against an original document",
		Subcommands: []*cli.Command{
			{
				Name:  "from-sale",
				Flags: []cli.Flag{companyFlag(), &cli.StringFlag{Name: "original", Required: true, Usage: "sale id"}, unitsFlag},
				Action: func(c *cli.Context) error {
					return submit(c, returnsdomain.KindSaleReturn)
				},
			},
			{
				Name:  "from-purchase",
				Flags: []cli.Flag{companyFlag(), &cli.StringFlag{Name: "original", Required: true, Usage: "purchase id"}, unitsFlag},
				Action: func(c *cli.Context) error {
					return submit(c, returnsdomain.KindPurchaseReturn)
				},
			},
		},
	}
}

func draftsCommand() *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "locally saved document drafts",
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company"},
					&cli.StringFlag{Name: "kind", Usage: "filter by document kind"},
				},
				Action: func(c *cli.Context) error {
					return runOneShot(fx.Invoke(func(st *store.Store) error {
						ctx, cancel := commandContext()
						defer cancel()
						recs, err := st.Drafts(ctx, c.String("kind"), c.String("company"))
						if err != nil {
							return err
						}
						w := newTable()
						fmt.Fprintln(w, "ID\tKIND\tCOMPANY")
						for _, rec := range recs {
							fmt.Fprintf(w, "%s\t%s\t%s\n", rec.ID, rec.Kind, rec.CompanyID)
						}
						return w.Flush()
					}))
				},
			},
			{
				Name:  "submit",
				Usage: "submit a saved sale draft and delete it on success",
				Flags: []cli.Flag{&cli.StringFlag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					return runOneShot(fx.Invoke(func(st *store.Store, sales saledomain.Service) error {
						ctx, cancel := commandContext()
						defer cancel()
						rec, err := st.Draft(ctx, c.String("id"))
						if err != nil {
							return err
						}
						if rec.Kind != "sale" {
							return fmt.Errorf("draft %s is a %s draft, only sale drafts can be submitted", rec.ID, rec.Kind)
						}
						var req saledomain.CreateRequest
						if err := json.Unmarshal([]byte(rec.Payload), &req); err != nil {
							return fmt.Errorf("decode draft %s: %w", rec.ID, err)
						}
						inv, err := sales.SubmitRequest(ctx, req)
						if err != nil {
							return err
						}
						if err := st.DeleteDraft(ctx, rec.ID); err != nil {
							return err
						}
						fmt.Printf("sale %s created from draft, total %.2f\n", inv.InvoiceNumber, inv.TotalAfterTax)
						return nil
					}))
				},
			},
			{
				Name:  "delete",
				Flags: []cli.Flag{&cli.StringFlag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					return runOneShot(fx.Invoke(func(st *store.Store) error {
						ctx, cancel := commandContext()
						defer cancel()
						if err := st.DeleteDraft(ctx, c.String("id")); err != nil {
							return err
						}
						fmt.Println("draft deleted")
						return nil
					}))
				},
			},
		},
	}
}

func reportsCommand() *cli.Command {
	rangeFlags := []cli.Flag{
		companyFlag(),
		&cli.TimestampFlag{Name: "from", Layout: "2006-01-02", Required: true},
		&cli.TimestampFlag{Name: "to", Layout: "2006-01-02", Required: true},
	}
	return &cli.Command{
		Name:  "reports",
		Usage: "summaries from the report service",
		Subcommands: []*cli.Command{
			{
				Name:  "sales",
				Flags: rangeFlags,
				Action: func(c *cli.Context) error {
					return runOneShot(
						sessionOption(c.String("company"), ""),
						fx.Invoke(func(sess session.Context, svc reportdomain.Service) error {
							ctx, cancel := commandContext()
							defer cancel()
							sum, err := svc.SalesSummary(ctx, sess, reportdomain.Range{
								From: *c.Timestamp("from"),
								To:   *c.Timestamp("to"),
							})
							if err != nil {
								return err
							}
							fmt.Printf("documents: %d\ntotal: %.2f\npaid: %.2f\noutstanding: %.2f\n",
								sum.DocumentCount, sum.Total, sum.AmountPaid, sum.Outstanding)
							return nil
						}),
					)
				},
			},
			{
				Name:  "purchases",
				Flags: rangeFlags,
				Action: func(c *cli.Context) error {
					return runOneShot(
						sessionOption(c.String("company"), ""),
						fx.Invoke(func(sess session.Context, svc reportdomain.Service) error {
							ctx, cancel := commandContext()
							defer cancel()
							sum, err := svc.PurchaseSummary(ctx, sess, reportdomain.Range{
								From: *c.Timestamp("from"),
								To:   *c.Timestamp("to"),
							})
							if err != nil {
								return err
							}
							fmt.Printf("documents: %d\ntotal: %.2f\npaid: %.2f\noutstanding: %.2f\n",
								sum.DocumentCount, sum.Total, sum.AmountPaid, sum.Outstanding)
							return nil
						}),
					)
				},
			},
			{
				Name:  "stock",
				Flags: []cli.Flag{companyFlag(), &cli.StringFlag{Name: "branch"}},
				Action: func(c *cli.Context) error {
					return runOneShot(
						sessionOption(c.String("company"), c.String("branch")),
						fx.Invoke(func(sess session.Context, svc reportdomain.Service) error {
							ctx, cancel := commandContext()
							defer cancel()
							sum, err := svc.StockSummary(ctx, sess)
							if err != nil {
								return err
							}
							fmt.Printf("items: %d\nstock value: %.2f\n", sum.ItemCount, sum.StockValue)
							if len(sum.LowStock) > 0 {
								w := newTable()
								fmt.Fprintln(w, "ID\tNAME\tON HAND")
								for _, line := range sum.LowStock {
									fmt.Fprintf(w, "%s\t%s\t%.2f\n", line.ItemID, line.Name, line.StockOnHand)
								}
								return w.Flush()
							}
							return nil
						}),
					)
				},
			},
		},
	}
}

func permissionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "permissions",
		Usage: "role permissions",
		Subcommands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "pull role definitions from the sysadmin service",
				Flags: []cli.Flag{companyFlag()},
				Action: func(c *cli.Context) error {
					return runOneShot(fx.Invoke(func(gate rbac.Service) error {
						ctx, cancel := commandContext()
						defer cancel()
						if err := gate.Sync(ctx, c.String("company")); err != nil {
							return err
						}
						fmt.Println("permissions synced")
						return nil
					}))
				},
			},
		},
	}
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// parsePair splits the repeatable "itemID=quantity" flag values.
func parsePair(pair string) (string, decimal.Decimal, error) {
	itemID, raw, ok := strings.Cut(pair, "=")
	if !ok || itemID == "" {
		return "", decimal.Zero, fmt.Errorf("malformed line %q, want itemID=quantity", pair)
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("malformed quantity in %q: %w", pair, err)
	}
	return itemID, qty, nil
}

func addLines(ctx context.Context, add func(itemdomain.Item, decimal.Decimal), items itemdomain.Service, companyID string, pairs []string) error {
	for _, pair := range pairs {
		itemID, qty, err := parsePair(pair)
		if err != nil {
			return err
		}
		it, err := items.Get(ctx, itemID, companyID)
		if err != nil {
			return fmt.Errorf("item %s: %w", itemID, err)
		}
		add(*it, qty)
	}
	return nil
}

func itemNames(ctx context.Context, items itemdomain.Service, companyID string, lines []document.WireItem) map[string]string {
	names := make(map[string]string, len(lines))
	for _, line := range lines {
		if _, ok := names[line.ItemID]; ok {
			continue
		}
		if it, err := items.Get(ctx, line.ItemID, companyID); err == nil {
			names[line.ItemID] = it.Name
		}
	}
	return names
}

func writePDF(ctx context.Context, pdf *printing.PDFRenderer, doc printing.Document, out string) error {
	r, err := pdf.Render(ctx, doc)
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.ReadFrom(r); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func flushTable(w *tabwriter.Writer, hasNext bool, cursor string) error {
	if err := w.Flush(); err != nil {
		return err
	}
	if hasNext {
		fmt.Printf("more results: --cursor %s\n", cursor)
	}
	return nil
}
