package handlers

import (
	"errors"
	"net/http"

	"github.com/you/gramshare/internal/events"
	"github.com/you/gramshare/internal/filestore"
	"github.com/you/gramshare/internal/models"
	"github.com/you/gramshare/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GramHandler exposes the gram resource: listing, detail, create, edit,
// update and destroy. Mutating operations are ownership-checked.
type GramHandler struct {
	store  storage.Storage
	files  filestore.Store
	events events.Sink
}

func NewGramHandler(store storage.Storage, files filestore.Store, sink events.Sink) *GramHandler {
	return &GramHandler{store: store, files: files, events: sink}
}

// List shows every gram. No auth required.
func (h *GramHandler) List(c *gin.Context) {
	grams, err := h.store.GetAllGrams()
	if err != nil {
		log.WithError(err).Error("list grams failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grams": grams})
}

// Show displays one gram. No auth required; an unresolved id is not found.
func (h *GramHandler) Show(c *gin.Context) {
	gram, err := h.store.GetGramByID(c.Param("id"))
	if err != nil {
		renderNotFound(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gram": gram})
}

// New returns an empty gram template for the create form.
func (h *GramHandler) New(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"gram": models.Gram{}})
}

// Create posts a new gram owned by the current user.
func (h *GramHandler) Create(c *gin.Context) {
	user, _ := currentUser(c)

	gram := models.Gram{
		Message: c.PostForm("message"),
		UserID:  user.ID,
	}
	if err := gram.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"gram": gram, "errors": []string{err.Error()}})
		return
	}

	picture, err := h.savePicture(c)
	if err != nil {
		log.WithError(err).Error("store picture failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	created, err := h.store.AddGram(user.ID, gram.Message, picture)
	if err != nil {
		log.WithError(err).Error("create gram failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	if err := h.events.PublishJSON(c.Request.Context(), events.RKGramCreated, events.GramCreated{
		GramID:  created.ID,
		UserID:  created.UserID,
		Message: created.Message,
	}); err != nil {
		log.WithError(err).Warn("publish gram.created failed")
	}

	c.Redirect(http.StatusFound, "/")
}

// Edit returns the gram for the edit form. Owner only.
func (h *GramHandler) Edit(c *gin.Context) {
	gram, ok := h.ownedGram(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"gram": gram})
}

// Update applies message/picture changes. Both fields are optional; an
// absent field keeps the stored value. The proposed record is validated
// before anything is persisted, so an invalid update never commits.
func (h *GramHandler) Update(c *gin.Context) {
	gram, ok := h.ownedGram(c)
	if !ok {
		return
	}

	proposed := *gram
	if message, ok := c.GetPostForm("message"); ok {
		proposed.Message = message
	}
	if picture, err := h.savePicture(c); err != nil {
		log.WithError(err).Error("store picture failed")
		c.Status(http.StatusInternalServerError)
		return
	} else if picture != "" {
		proposed.Picture = picture
	}

	if err := proposed.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"gram": proposed, "errors": []string{err.Error()}})
		return
	}

	if _, err := h.store.UpdateGram(gram.ID, proposed.Message, proposed.Picture); err != nil {
		renderNotFound(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Destroy deletes the gram. Owner only.
func (h *GramHandler) Destroy(c *gin.Context) {
	gram, ok := h.ownedGram(c)
	if !ok {
		return
	}
	if err := h.store.DeleteGram(gram.ID); err != nil {
		renderNotFound(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ownedGram resolves :id and enforces ownership, writing the not-found or
// forbidden response itself when the check fails.
func (h *GramHandler) ownedGram(c *gin.Context) (*models.Gram, bool) {
	gram, err := h.store.GetGramByID(c.Param("id"))
	if err != nil {
		renderNotFound(c, err)
		return nil, false
	}
	user, _ := currentUser(c)
	if !isOwner(gram, user) {
		renderForbidden(c)
		return nil, false
	}
	return gram, true
}

// savePicture stores an uploaded picture, if any, and returns its public
// path. No picture in the form is not an error.
func (h *GramHandler) savePicture(c *gin.Context) (string, error) {
	header, err := c.FormFile("picture")
	if err != nil {
		return "", nil
	}
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.files.Save(header.Filename, f)
}

func renderNotFound(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	log.WithError(err).Error("storage failure")
	c.Status(http.StatusInternalServerError)
}

// renderForbidden writes the authorization failure. It shares the not-found
// status and differs only in body text, so the response does not reveal
// whether the record exists.
func renderForbidden(c *gin.Context) {
	c.String(http.StatusNotFound, "Forbidden: Not your gram")
}
