// Package preview serves rendered documents on a local port so they can be
// checked in a browser or printed before sending.
package preview

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/document"
	itemdomain "github.com/smallbiznis/ledgerline/internal/item/domain"
	"github.com/smallbiznis/ledgerline/internal/printing"
	purchasedomain "github.com/smallbiznis/ledgerline/internal/purchase/domain"
	quotationdomain "github.com/smallbiznis/ledgerline/internal/quotation/domain"
	saledomain "github.com/smallbiznis/ledgerline/internal/sale/domain"
	"github.com/smallbiznis/ledgerline/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	engine *gin.Engine
	sess   session.Context
	log    *zap.Logger

	sales      saledomain.Service
	purchases  purchasedomain.Service
	quotations quotationdomain.Service
	items      itemdomain.Service

	html *printing.HTMLRenderer
	pdf  *printing.PDFRenderer
}

type Params struct {
	fx.In

	Sess       session.Context
	Log        *zap.Logger
	Sales      saledomain.Service
	Purchases  purchasedomain.Service
	Quotations quotationdomain.Service
	Items      itemdomain.Service
	HTML       *printing.HTMLRenderer
	PDF        *printing.PDFRenderer
}

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func NewServer(p Params) *Server {
	s := &Server{
		engine:     NewEngine(),
		sess:       p.Sess,
		log:        p.Log.Named("preview"),
		sales:      p.Sales,
		purchases:  p.Purchases,
		quotations: p.Quotations,
		items:      p.Items,
		html:       p.HTML,
		pdf:        p.PDF,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/sale/:id", s.renderHTML(s.fetchSale))
	s.engine.GET("/sale/:id/pdf", s.renderPDF(s.fetchSale))
	s.engine.GET("/purchase/:id", s.renderHTML(s.fetchPurchase))
	s.engine.GET("/purchase/:id/pdf", s.renderPDF(s.fetchPurchase))
	s.engine.GET("/quotation/:id", s.renderHTML(s.fetchQuotation))
	s.engine.GET("/quotation/:id/pdf", s.renderPDF(s.fetchQuotation))
}

func (s *Server) Engine() *gin.Engine { return s.engine }

type fetchFunc func(ctx context.Context, id string) (printing.Document, error)

func (s *Server) renderHTML(fetch fetchFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := fetch(c.Request.Context(), c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		out, err := s.html.Render(doc)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
	}
}

func (s *Server) renderPDF(fetch fetchFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := fetch(c.Request.Context(), c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		r, err := s.pdf.Render(c.Request.Context(), doc)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.DataFromReader(http.StatusOK, -1, "application/pdf", r, nil)
	}
}

func (s *Server) fetchSale(ctx context.Context, id string) (printing.Document, error) {
	inv, err := s.sales.Get(ctx, id, s.sess.Company.ID)
	if err != nil {
		return printing.Document{}, err
	}
	names := s.itemNames(ctx, inv.Items)
	return printing.FromWire(printing.KindSale, inv.InvoiceNumber, s.sess,
		inv.PartyName, inv.Date, inv.Items, names, inv.WireTotals), nil
}

func (s *Server) fetchPurchase(ctx context.Context, id string) (printing.Document, error) {
	inv, err := s.purchases.Get(ctx, id, s.sess.Company.ID)
	if err != nil {
		return printing.Document{}, err
	}
	names := s.itemNames(ctx, inv.Items)
	return printing.FromWire(printing.KindPurchase, inv.InvoiceNumber, s.sess,
		inv.PartyName, inv.Date, inv.Items, names, inv.WireTotals), nil
}

func (s *Server) fetchQuotation(ctx context.Context, id string) (printing.Document, error) {
	q, err := s.quotations.Get(ctx, id, s.sess.Company.ID)
	if err != nil {
		return printing.Document{}, err
	}
	names := s.itemNames(ctx, q.Items)
	return printing.FromWire(printing.KindQuotation, q.QuotationNumber, s.sess,
		q.PartyName, q.Date, q.Items, names, q.WireTotals), nil
}

// itemNames resolves display names for the lines. A failed lookup falls
// back to the raw item id rather than failing the whole page.
func (s *Server) itemNames(ctx context.Context, lines []document.WireItem) map[string]string {
	names := make(map[string]string, len(lines))
	for _, line := range lines {
		if _, ok := names[line.ItemID]; ok {
			continue
		}
		it, err := s.items.Get(ctx, line.ItemID, s.sess.Company.ID)
		if err != nil {
			s.log.Warn("item name lookup failed",
				zap.String("item_id", line.ItemID),
				zap.Error(err),
			)
			continue
		}
		names[line.ItemID] = it.Name
	}
	return names
}

func Run(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.PreviewAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("preview server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("preview server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("preview",
	fx.Provide(NewServer),
	fx.Invoke(Run),
)
