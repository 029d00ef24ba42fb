package user

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lshigami/assessment-engine/config"
	"github.com/lshigami/assessment-engine/internal/controller"
	"github.com/lshigami/assessment-engine/internal/dto"
	"github.com/lshigami/assessment-engine/internal/proctor"
	"github.com/lshigami/assessment-engine/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	msgAnswer    = "answer"
	msgFocusLost = "focus_lost"
	msgSubmit    = "submit"

	evReady      = "ready"
	evWarning    = "warning"
	evTerminated = "terminated"
	evResult     = "result"
	evError      = "error"

	writeWait = 10 * time.Second
)

type proctorMessage struct {
	Type       string `json:"type"`
	QuestionID string `json:"question_id,omitempty"`
	OptionID   string `json:"option_id,omitempty"`
}

type proctorEvent struct {
	Type           string                     `json:"type"`
	Message        string                     `json:"message,omitempty"`
	AttemptNumber  int                        `json:"attempt_number,omitempty"`
	StartedAt      *time.Time                 `json:"started_at,omitempty"`
	Questions      []dto.CandidateQuestionDTO `json:"questions,omitempty"`
	TabSwitchCount int                        `json:"tab_switch_count,omitempty"`
	Remaining      *int                       `json:"remaining_warnings,omitempty"`
	Reason         string                     `json:"reason,omitempty"`
	Result         *dto.AttemptResultDTO      `json:"result,omitempty"`
}

// ProctorController runs a proctored attempt over a websocket: the client
// reports answers and focus changes, the server enforces the warning limit
// and grades the attempt.
type ProctorController struct {
	attemptService service.AttemptService
	maxWarnings    int
	upgrader       websocket.Upgrader
}

func NewProctorController(ats service.AttemptService, cfg *config.Config) *ProctorController {
	return &ProctorController{
		attemptService: ats,
		maxWarnings:    cfg.Assessment.MaxWarnings,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Proctor godoc
// @Summary (Candidate) Proctored attempt session
// @Description Upgrades to a websocket. Client messages: answer{question_id, option_id}, focus_lost, submit. Server events: ready, warning, terminated, result, error.
// @Tags Candidate - Attempts
// @Param assessment_id path string true "Assessment ID"
// @Param user_id query string true "Candidate user ID"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} dto.ErrorResponse "Missing user_id"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 409 {object} dto.ErrorResponse "Already attempted"
// @Router /assessments/{assessment_id}/proctor [get]
func (c *ProctorController) Proctor(ctx *gin.Context) {
	assessmentID := ctx.Param("assessment_id")
	userID := strings.TrimSpace(ctx.Query("user_id"))
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "user_id query parameter is required"})
		return
	}

	ok, err := c.attemptService.CanAttempt(ctx.Request.Context(), assessmentID, userID)
	if err != nil {
		controller.RespondError(ctx, "Failed to open proctored session", err)
		return
	}
	if !ok {
		alreadyAttempted(ctx)
		return
	}
	started, err := c.attemptService.Start(ctx.Request.Context(), assessmentID, userID)
	if err != nil {
		controller.RespondError(ctx, "Failed to open proctored session", err)
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("assessmentID", assessmentID).Msg("Proctor websocket upgrade failed")
		return
	}
	log.Info().Str("assessmentID", assessmentID).Str("userID", userID).
		Int("attempt", started.AttemptNumber).Msg("Proctored session opened")

	out := make(chan proctorEvent, 16)
	quit := make(chan struct{})
	writerDone := make(chan struct{})
	go writePump(conn, out, quit, writerDone)

	send := func(ev proctorEvent) {
		select {
		case out <- ev:
		case <-quit:
		}
	}

	startedAt := started.StartedAt
	var session *proctor.Session
	session = proctor.NewSession(func(sub proctor.Submission) {
		if sub.Forced {
			send(proctorEvent{Type: evTerminated, Reason: *sub.TerminationReason, TabSwitchCount: sub.TabSwitchCount})
		}
		go func() {
			submitted := time.Now()
			req := dto.GradeSubmissionDTO{
				UserID:            userID,
				TimeStarted:       &startedAt,
				TimeSubmitted:     &submitted,
				TabSwitchCount:    sub.TabSwitchCount,
				TerminationReason: sub.TerminationReason,
			}
			for q, o := range sub.Answers {
				req.Answers = append(req.Answers, dto.AnswerDTO{QuestionID: q, OptionID: o})
			}

			result, err := c.attemptService.Grade(context.Background(), assessmentID, req)
			session.Resolve(err)
			if err != nil {
				log.Error().Err(err).Str("assessmentID", assessmentID).Str("userID", userID).Msg("Proctored submission failed")
				send(proctorEvent{Type: evError, Message: "Failed to submit assessment. Please try again."})
				return
			}
			send(proctorEvent{Type: evResult, Result: result})
		}()
	}, proctor.WithMaxWarnings(c.maxWarnings))

	send(proctorEvent{
		Type:          evReady,
		AttemptNumber: started.AttemptNumber,
		StartedAt:     &startedAt,
		Questions:     started.Assessment.Questions,
	})

	c.readLoop(conn, session, send)
	close(quit)
	<-writerDone
	log.Info().Str("assessmentID", assessmentID).Str("userID", userID).
		Str("state", session.State().String()).Int("tabSwitches", session.Violations()).
		Msg("Proctored session closed")
}

func (c *ProctorController) readLoop(conn *websocket.Conn, session *proctor.Session, send func(proctorEvent)) {
	for {
		var msg proctorMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case msgAnswer:
			if !session.Answer(msg.QuestionID, msg.OptionID) {
				send(proctorEvent{Type: evError, Message: "Answers are locked."})
			}
		case msgFocusLost:
			before := session.Violations()
			if session.FocusLost() == proctor.StateWarned && session.Violations() > before {
				remaining := session.MaxWarnings() - session.Violations()
				send(proctorEvent{Type: evWarning, TabSwitchCount: session.Violations(), Remaining: &remaining})
			}
		case msgSubmit:
			if !session.Submit() {
				send(proctorEvent{Type: evError, Message: "Submission is already in progress or complete."})
			}
		default:
			send(proctorEvent{Type: evError, Message: "Unknown message type " + msg.Type})
		}
	}
}

// writePump is the only writer on conn. It closes the connection after a
// result is delivered or once quit is closed.
func writePump(conn *websocket.Conn, out <-chan proctorEvent, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer conn.Close()
	for {
		select {
		case ev := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Warn().Err(err).Str("event", ev.Type).Msg("Proctor websocket write failed")
				return
			}
			if ev.Type == evResult {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "submitted"))
				return
			}
		case <-quit:
			return
		}
	}
}
