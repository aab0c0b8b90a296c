package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

// --- Bannières ---

type BannerInput struct {
	Name   *string              `json:"name"`
	Image  *string              `json:"image"`
	Status *models.BannerStatus `json:"status"`
}

func GetBanner(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Banner, error) {
	b, err := database.GetBanner(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("banner %d not found", id)
	}
	return b, err
}

func applyBanner(ctx context.Context, q sqlx.ExtContext, b *models.Banner, in BannerInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperr.Validation("banner name must not be empty")
		}
		taken, err := database.BannerNameTaken(ctx, q, name, b.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Validation("banner name %q already exists", name)
		}
		b.Name = name
	}
	if in.Image != nil {
		b.Image = *in.Image
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return apperr.Validation("status must be between 0 and 3")
		}
		b.Status = *in.Status
	}
	return nil
}

func CreateBanner(ctx context.Context, store *database.Store, in BannerInput) (*models.Banner, error) {
	if in.Name == nil {
		return nil, apperr.Validation("name is required")
	}
	b := &models.Banner{Status: models.BannerInactive}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := applyBanner(ctx, tx, b, in); err != nil {
			return err
		}
		return database.InsertBanner(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func UpdateBanner(ctx context.Context, store *database.Store, id int64, in BannerInput) (*models.Banner, error) {
	var b *models.Banner
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if b, err = GetBanner(ctx, tx, id); err != nil {
			return err
		}
		if err := applyBanner(ctx, tx, b, in); err != nil {
			return err
		}
		return database.UpdateBanner(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBanner retire la bannière et ses liens produits dans la même transaction.
func DeleteBanner(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := GetBanner(ctx, tx, id); err != nil {
			return err
		}
		return database.DeleteBanner(ctx, tx, id)
	})
}

type BannerDetailInput struct {
	BannerID  int64 `json:"banner_id"`
	ProductID int64 `json:"product_id"`
}

func CreateBannerDetail(ctx context.Context, store *database.Store, in BannerDetailInput) (*models.BannerDetail, error) {
	d := &models.BannerDetail{BannerID: in.BannerID, ProductID: in.ProductID}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetBanner(ctx, tx, in.BannerID); errors.Is(err, database.ErrNotFound) {
			return apperr.Validation("banner %d does not exist", in.BannerID)
		} else if err != nil {
			return err
		}
		if err := requireProduct(ctx, tx, in.ProductID); err != nil {
			return err
		}
		exists, err := database.BannerDetailExists(ctx, tx, in.BannerID, in.ProductID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("product %d is already linked to banner %d", in.ProductID, in.BannerID)
		}
		return database.InsertBannerDetail(ctx, tx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func DeleteBannerDetail(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetBannerDetail(ctx, tx, id); errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("banner detail %d not found", id)
		} else if err != nil {
			return err
		}
		return database.DeleteBannerDetail(ctx, tx, id)
	})
}

// --- Actualités ---

type NewsInput struct {
	Title   *string `json:"title"`
	Image   *string `json:"image"`
	Content *string `json:"content"`
}

func GetNews(ctx context.Context, q sqlx.ExtContext, id int64) (*models.News, error) {
	n, err := database.GetNews(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("news %d not found", id)
	}
	return n, err
}

func applyNews(n *models.News, in NewsInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return apperr.Validation("title must not be empty")
		}
		n.Title = title
	}
	if in.Image != nil {
		n.Image = *in.Image
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	return nil
}

func CreateNews(ctx context.Context, store *database.Store, in NewsInput) (*models.News, error) {
	if in.Title == nil {
		return nil, apperr.Validation("title is required")
	}
	n := &models.News{}
	if err := applyNews(n, in); err != nil {
		return nil, err
	}
	if err := database.InsertNews(ctx, store.DB(), n); err != nil {
		return nil, err
	}
	return n, nil
}

func UpdateNews(ctx context.Context, store *database.Store, id int64, in NewsInput) (*models.News, error) {
	var n *models.News
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if n, err = GetNews(ctx, tx, id); err != nil {
			return err
		}
		if err := applyNews(n, in); err != nil {
			return err
		}
		return database.UpdateNews(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func DeleteNews(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := GetNews(ctx, tx, id); err != nil {
			return err
		}
		return database.DeleteNews(ctx, tx, id)
	})
}

type NewsDetailInput struct {
	NewsID    int64 `json:"news_id"`
	ProductID int64 `json:"product_id"`
}

func CreateNewsDetail(ctx context.Context, store *database.Store, in NewsDetailInput) (*models.NewsDetail, error) {
	d := &models.NewsDetail{NewsID: in.NewsID, ProductID: in.ProductID}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetNews(ctx, tx, in.NewsID); errors.Is(err, database.ErrNotFound) {
			return apperr.Validation("news %d does not exist", in.NewsID)
		} else if err != nil {
			return err
		}
		if err := requireProduct(ctx, tx, in.ProductID); err != nil {
			return err
		}
		exists, err := database.NewsDetailExists(ctx, tx, in.NewsID, in.ProductID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("product %d is already linked to news %d", in.ProductID, in.NewsID)
		}
		return database.InsertNewsDetail(ctx, tx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func DeleteNewsDetail(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetNewsDetail(ctx, tx, id); errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("news detail %d not found", id)
		} else if err != nil {
			return err
		}
		return database.DeleteNewsDetail(ctx, tx, id)
	})
}

// --- Avis ---

type FeedbackInput struct {
	ProductID int64  `json:"product_id" binding:"required,gt=0"`
	Star      int    `json:"star" binding:"required,min=1,max=5"`
	Content   string `json:"content"`
}

// CreateFeedback enregistre un avis et recalcule la note moyenne du produit.
func CreateFeedback(ctx context.Context, store *database.Store, userID int64, in FeedbackInput) (*models.Feedback, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	f := &models.Feedback{ProductID: in.ProductID, UserID: userID, Star: in.Star, Content: strings.TrimSpace(in.Content)}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireProduct(ctx, tx, in.ProductID); err != nil {
			return err
		}
		if err := database.InsertFeedback(ctx, tx, f); err != nil {
			return err
		}
		return database.RefreshProductRating(ctx, tx, in.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func requireProduct(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := database.GetProduct(ctx, q, id); errors.Is(err, database.ErrNotFound) {
		return apperr.Validation("product %d does not exist", id)
	} else if err != nil {
		return err
	}
	return nil
}
