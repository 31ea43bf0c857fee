package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autosheetify/internal/input"
	"autosheetify/internal/library"
	"autosheetify/internal/logging"
	"autosheetify/internal/orchestrator"
	"autosheetify/internal/services"
	"autosheetify/internal/textutil"
	"autosheetify/internal/transcribe"
)

func (s *Server) health(c *gin.Context) {
	state := s.machine.State()
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"phase":   state.Phase,
		"library": s.library != nil,
	})
}

func (s *Server) state() State {
	return FromState(s.machine.State(), s.gate.CanSubmit())
}

// getState returns the current state. With wait=1 it blocks until the next
// change; since=<version> returns at once if the state already moved on.
func (s *Server) getState(c *gin.Context) {
	if wait, _ := strconv.ParseBool(c.DefaultQuery("wait", "false")); wait {
		changed := s.machine.Changed()
		since, err := strconv.ParseUint(c.Query("since"), 10, 64)
		if err != nil || s.machine.State().Version == since {
			timer := time.NewTimer(s.longPoll)
			defer timer.Stop()
			select {
			case <-changed:
			case <-timer.C:
			case <-c.Request.Context().Done():
				return
			}
		}
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) putInputFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, fmt.Errorf("%w: multipart field \"file\" is required", services.ErrValidation))
		return
	}
	name := filepath.Base(header.Filename)
	if !input.IsSupportedMedia(name) {
		writeError(c, fmt.Errorf("%w: %q", services.ErrUnsupportedMedia, name))
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		writeError(c, fmt.Errorf("ensure upload directory: %w", err))
		return
	}
	ext := strings.ToLower(filepath.Ext(name))
	stem := textutil.SanitizeToken(strings.TrimSuffix(name, filepath.Ext(name)))
	spool := filepath.Join(s.uploadDir, "upload-"+stem+"-"+uuid.NewString()+ext)
	if err := c.SaveUploadedFile(header, spool); err != nil {
		writeError(c, fmt.Errorf("spool upload: %w", err))
		return
	}

	file, err := input.NewFile(name, header.Size, func() (io.ReadCloser, error) {
		return s.spools.open(spool)
	})
	if err == nil {
		s.inputMu.Lock()
		err = s.machine.Input().SetFile(file)
		if err == nil {
			s.spools.selectOnly(spool)
		}
		s.inputMu.Unlock()
	}
	if err != nil {
		_ = os.Remove(spool)
		writeError(c, err)
		return
	}
	s.logger.Info("input file selected",
		logging.String(logging.FieldSource, name),
		logging.Int64("size", header.Size),
	)
	c.JSON(http.StatusOK, s.state())
}

type urlRequest struct {
	URL string `json:"url"`
}

func (s *Server) putInputURL(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}
	s.inputMu.Lock()
	err := s.machine.Input().SetURL(req.URL)
	if err == nil {
		s.spools.selectOnly("")
	}
	s.inputMu.Unlock()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) deleteInput(c *gin.Context) {
	s.inputMu.Lock()
	s.machine.Input().Clear()
	s.spools.selectOnly("")
	s.inputMu.Unlock()
	c.JSON(http.StatusOK, s.state())
}

type instrumentRequest struct {
	Instrument string `json:"instrument"`
}

func (s *Server) putInstrument(c *gin.Context) {
	var req instrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}
	inst, err := transcribe.ParseInstrument(req.Instrument)
	if err != nil {
		writeError(c, err)
		return
	}
	s.machine.SetInstrument(inst)
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) postSubmit(c *gin.Context) {
	s.inputMu.Lock()
	held := s.spools.holdSelected()
	err := s.machine.Submit(s.submitCtx)
	s.inputMu.Unlock()
	if err != nil {
		if held != "" {
			s.spools.release(held)
		}
		writeError(c, err)
		return
	}
	if held != "" {
		go s.releaseWhenResolved(held)
	}
	c.JSON(http.StatusAccepted, s.state())
}

// releaseWhenResolved keeps a submitted upload on disk until the submission
// resolves or is orphaned by a reset.
func (s *Server) releaseWhenResolved(spool string) {
	_, _ = s.machine.Wait(s.submitCtx)
	s.spools.release(spool)
}

func (s *Server) postReset(c *gin.Context) {
	s.inputMu.Lock()
	s.machine.Reset()
	s.spools.selectOnly("")
	s.inputMu.Unlock()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) getLibrary(c *gin.Context) {
	if s.library == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "library disabled"})
		return
	}
	entries, err := s.library.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]LibraryEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromEntry(entry))
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}

func (s *Server) postLibrary(c *gin.Context) {
	if s.library == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "library disabled"})
		return
	}
	state := s.machine.State()
	if state.Phase != orchestrator.PhaseSuccess || state.Result == nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: library.ErrNotSuccessful.Error()})
		return
	}
	entry, err := library.EntryFromResult(*state.Result, state.Input, state.Instrument)
	if err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}
	saved, err := s.library.Add(c.Request.Context(), entry)
	if err != nil {
		writeError(c, err)
		return
	}
	s.logger.Info("result saved to library",
		logging.String("entry_id", saved.ID),
		logging.String("title", saved.Title),
	)
	c.JSON(http.StatusCreated, FromEntry(saved))
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := services.KindOf(err)
	switch kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindAuth:
		status = http.StatusUnauthorized
	default:
		if errors.Is(err, library.ErrNotFound) {
			status = http.StatusNotFound
		}
		kind = services.KindNone
	}
	c.JSON(status, ErrorResponse{Error: strings.TrimSpace(err.Error()), Kind: string(kind)})
}
