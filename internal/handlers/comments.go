package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/you/gramshare/internal/events"
	"github.com/you/gramshare/internal/models"
	"github.com/you/gramshare/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// CommentHandler exposes comment creation under a parent gram, plus the
// listing and live feed endpoints. Comments have no edit or delete.
type CommentHandler struct {
	store  storage.Storage
	events events.Sink
}

func NewCommentHandler(store storage.Storage, sink events.Sink) *CommentHandler {
	return &CommentHandler{store: store, events: sink}
}

// New returns an empty comment template for the parent gram. The form
// renders even when the parent does not resolve; Create enforces the lookup.
func (h *CommentHandler) New(c *gin.Context) {
	gram, _ := h.store.GetGramByID(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"gram": gram, "comment": models.Comment{}})
}

// Create attaches a comment to the parent gram and redirects to the listing.
func (h *CommentHandler) Create(c *gin.Context) {
	user, _ := currentUser(c)

	comment, err := h.store.AddComment(c.Param("id"), user.ID, c.PostForm("message"))
	if err != nil {
		renderNotFound(c, err)
		return
	}

	if err := h.events.PublishJSON(c.Request.Context(), events.RKCommentCreated, events.CommentCreated{
		CommentID: comment.ID,
		GramID:    comment.GramID,
		UserID:    comment.UserID,
		Message:   comment.Message,
	}); err != nil {
		log.WithError(err).Warn("publish gram.comment.created failed")
	}

	c.Redirect(http.StatusFound, "/")
}

// List returns the gram's comments, newest first.
func (h *CommentHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	comments, err := h.store.GetCommentsByGramID(c.Param("id"), limit, offset)
	if err != nil {
		renderNotFound(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Feed streams newly created comments for a gram over a websocket until the
// client goes away.
func (h *CommentHandler) Feed(c *gin.Context) {
	gramID := c.Param("id")
	if _, err := h.store.GetGramByID(gramID); err != nil {
		renderNotFound(c, err)
		return
	}

	ch, err := h.store.SubscribeToComments(c.Request.Context(), gramID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			renderNotFound(c, err)
			return
		}
		log.WithError(err).Error("subscribe to comments failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for comment := range ch {
		if err := conn.WriteJSON(comment); err != nil {
			return
		}
	}
}
