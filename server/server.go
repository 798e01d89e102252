package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/bellavista/concierge/agent/contract"
	menux "github.com/bellavista/concierge/agent/menu"
	twiliox "github.com/bellavista/concierge/pkg/twilio"
)

const maxMenuUploadBytes = 10 << 20

type Config struct {
	Addr  string `split_words:"true" default:":8080"`
	Debug bool   `split_words:"true" default:"false"`
}

// Dialogue is the slice of the orchestrator the transport needs.
type Dialogue interface {
	HandleMessage(ctx context.Context, callerID, text string) (string, error)
}

// Server exposes the webhook, reporting, and menu admin surfaces.
type Server struct {
	engine    *gin.Engine
	addr      string
	dialogue  Dialogue
	validator *twiliox.Validator
	bookings  contractx.BookingStore
	convlog   contractx.ConversationLog
	retriever *menux.Retriever
	facts     contractx.RestaurantFacts
}

func New(
	cfg Config,
	dialogue Dialogue,
	validator *twiliox.Validator,
	bookings contractx.BookingStore,
	convlog contractx.ConversationLog,
	retriever *menux.Retriever,
	facts contractx.RestaurantFacts,
) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		addr:      cfg.Addr,
		dialogue:  dialogue,
		validator: validator,
		bookings:  bookings,
		convlog:   convlog,
		retriever: retriever,
		facts:     facts,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", s.handleHealth)
	engine.POST("/webhook", s.handleWebhook)
	engine.GET("/bookings", s.handleListBookings)
	engine.GET("/conversations", s.handleListConversations)
	engine.POST("/admin/menu", s.handleMenuUpload)

	s.engine = engine
	return s
}

func (s *Server) Run() error {
	log.Info().Str("addr", s.addr).Msg("http server starting")
	return s.engine.Run(s.addr)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleWebhook(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "bad form")
		return
	}
	if !s.validator.Valid(c.Request.PostForm, c.GetHeader("X-Twilio-Signature")) {
		c.String(http.StatusForbidden, "invalid signature")
		return
	}

	callerID := c.PostForm("From")
	text := c.PostForm("Body")

	// Every webhook outcome goes back as TwiML: the guest is on a
	// messaging channel, so even an unreadable message gets an
	// in-character reply rather than an HTTP error.
	reply, err := s.dialogue.HandleMessage(c.Request.Context(), callerID, text)
	if err != nil {
		log.Warn().Err(err).Str("caller_id", callerID).Msg("webhook message rejected")
		reply = fmt.Sprintf(
			"Sorry, I couldn't read that message. Please try again, or call us at %s.",
			s.facts.Phone,
		)
	}

	twiml, err := twiliox.RenderMessage(reply)
	if err != nil {
		log.Error().Err(err).Msg("twiml render failed")
		twiml, _ = twiliox.RenderMessage(fmt.Sprintf("Please call us at %s.", s.facts.Phone))
	}
	c.Data(http.StatusOK, "application/xml", []byte(twiml))
}

func (s *Server) handleListBookings(c *gin.Context) {
	filter := contractx.BookingFilter{
		Date:  c.Query("date"),
		Limit: intQuery(c, "limit"),
	}
	bookings, err := s.bookings.List(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("list bookings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

func (s *Server) handleListConversations(c *gin.Context) {
	entries, err := s.convlog.Recent(c.Request.Context(), intQuery(c, "limit"))
	if err != nil {
		log.Error().Err(err).Msg("list conversations failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "conversations": entries})
}

// handleMenuUpload ingests menu text for retrieval. Accepts a PDF as a
// multipart "file" part, or raw text as the request body.
func (s *Server) handleMenuUpload(c *gin.Context) {
	if s.retriever == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu retrieval is not configured"})
		return
	}

	text, source, err := readMenuPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.retriever.Ingest(c.Request.Context(), source, text); err != nil {
		log.Error().Err(err).Str("source", source).Msg("menu ingest failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": source, "chunks": s.retriever.ChunkCount()})
}

func readMenuPayload(c *gin.Context) (text, source string, err error) {
	file, header, ferr := c.Request.FormFile("file")
	if ferr == nil {
		defer file.Close()
		if header.Size > maxMenuUploadBytes {
			return "", "", fmt.Errorf("upload exceeds %d bytes", maxMenuUploadBytes)
		}
		raw, rerr := io.ReadAll(io.LimitReader(file, maxMenuUploadBytes))
		if rerr != nil {
			return "", "", rerr
		}
		if strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			extracted, perr := menux.ExtractPDFText(strings.NewReader(string(raw)), int64(len(raw)))
			if perr != nil {
				return "", "", fmt.Errorf("extract pdf text: %w", perr)
			}
			return extracted, header.Filename, nil
		}
		return string(raw), header.Filename, nil
	}

	raw, rerr := io.ReadAll(io.LimitReader(c.Request.Body, maxMenuUploadBytes))
	if rerr != nil {
		return "", "", rerr
	}
	if len(raw) == 0 {
		return "", "", fmt.Errorf("empty menu payload")
	}
	return string(raw), "inline", nil
}

func intQuery(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
