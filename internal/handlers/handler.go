package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

// Tailles de page par défaut des listes.
const (
	pageSizeProducts = 12
	pageSizeCatalog  = 6
	pageSizeCarts    = 5
	pageSizeOrders   = 5
	pageSizeUsers    = 5
	pageSizeContent  = 6
)

// Handler porte les dépendances communes à toutes les routes.
type Handler struct {
	store   *database.Store
	cache   *cache.ProductCache
	search  *services.SearchIndex
	images  *services.ImageStorage
	mailer  *utils.Mailer
	auditor *utils.Auditor
	cfg     *config.Config
}

// Deps liste ce que main construit pour les handlers. Seul Store est obligatoire.
type Deps struct {
	Store   *database.Store
	Cache   *cache.ProductCache
	Search  *services.SearchIndex
	Images  *services.ImageStorage
	Mailer  *utils.Mailer
	Auditor *utils.Auditor
	Config  *config.Config
}

var configureBinding sync.Once

func New(d Deps) *Handler {
	// Les erreurs de ShouldBindJSON nomment les champs comme ValidateStruct.
	configureBinding.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			utils.ConfigureValidator(v)
		}
	})
	if d.Auditor == nil {
		d.Auditor = utils.NewAuditor(nil)
	}
	if d.Config == nil {
		d.Config = &config.Config{}
	}
	return &Handler{
		store:   d.Store,
		cache:   d.Cache,
		search:  d.Search,
		images:  d.Images,
		mailer:  d.Mailer,
		auditor: d.Auditor,
		cfg:     d.Config,
	}
}

// respondError traduit err en réponse JSON { message }.
// Hors production, les 500 exposent aussi la chaîne d'erreur.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	body := gin.H{"message": apperr.Message(err)}
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		if !h.cfg.IsProduction() {
			body["error"] = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			h.respondError(c, utils.ValidationError(fieldErrs))
			return false
		}
		h.respondError(c, apperr.Validation("invalid request body: %v", err))
		return false
	}
	return true
}

// pathID lit un identifiant positif dans l'URL.
func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, apperr.Validation("invalid %s", name))
		return 0, false
	}
	return id, true
}

// queryID lit un identifiant facultatif dans la query string (0 si absent).
func (h *Handler) queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, apperr.Validation("invalid %s", name))
		return 0, false
	}
	return id, true
}

// pageFromQuery lit ?page= et ?limit= ; les valeurs invalides retombent sur les défauts.
func pageFromQuery(c *gin.Context, defaultSize int) models.Page {
	page := models.Page{Number: 1, Size: defaultSize}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		page.Number = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= 100 {
		page.Size = n
	}
	return page
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"message": message, "data": data})
}

func paginated[T any](c *gin.Context, message string, data []T, page models.Page, total int) {
	c.JSON(http.StatusOK, models.NewPaginated(message, data, page, total))
}

// notFound convertit database.ErrNotFound en 404 lisible.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound("%s %d not found", what, id)
	}
	return err
}
