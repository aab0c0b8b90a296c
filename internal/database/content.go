package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/models"
)

// --- Bannières ---

const bannerColumns = "id, name, image, status, created_at, updated_at"

func ListBanners(ctx context.Context, q sqlx.ExtContext, page models.Page, status *models.BannerStatus) ([]models.Banner, int, error) {
	var w where
	if status != nil {
		w.add("status = ?", *status)
	}
	total, err := count(ctx, q, "SELECT COUNT(*) FROM banners"+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count banners: %w", err)
	}
	var out []models.Banner
	args := append(append([]any{}, w.args...), page.Size, page.Offset())
	if err := selectAll(ctx, q, &out, "SELECT "+bannerColumns+" FROM banners"+w.String()+" ORDER BY id LIMIT ? OFFSET ?", args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list banners: %w", err)
	}
	return out, total, nil
}

func GetBanner(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Banner, error) {
	var b models.Banner
	if err := get(ctx, q, &b, "SELECT "+bannerColumns+" FROM banners WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &b, nil
}

func BannerNameTaken(ctx context.Context, q sqlx.ExtContext, name string, excludeID int64) (bool, error) {
	return nameTaken(ctx, q, "banners", name, excludeID)
}

func InsertBanner(ctx context.Context, q sqlx.ExtContext, b *models.Banner) error {
	b.CreatedAt, b.UpdatedAt = now(), now()
	id, err := insert(ctx, q, "INSERT INTO banners (name, image, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		b.Name, b.Image, b.Status, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert banner: %w", err)
	}
	b.ID = id
	return nil
}

func UpdateBanner(ctx context.Context, q sqlx.ExtContext, b *models.Banner) error {
	b.UpdatedAt = now()
	if _, err := exec(ctx, q, "UPDATE banners SET name = ?, image = ?, status = ?, updated_at = ? WHERE id = ?",
		b.Name, b.Image, b.Status, b.UpdatedAt, b.ID); err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}
	return nil
}

func DeleteBanner(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := exec(ctx, q, "DELETE FROM banner_details WHERE banner_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete banner details: %w", err)
	}
	if _, err := exec(ctx, q, "DELETE FROM banners WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	return nil
}

func ListBannerDetails(ctx context.Context, q sqlx.ExtContext, bannerID int64) ([]models.BannerDetail, error) {
	var out []models.BannerDetail
	var w where
	if bannerID > 0 {
		w.add("banner_id = ?", bannerID)
	}
	if err := selectAll(ctx, q, &out, "SELECT id, banner_id, product_id FROM banner_details"+w.String()+" ORDER BY id", w.args...); err != nil {
		return nil, fmt.Errorf("failed to list banner details: %w", err)
	}
	return out, nil
}

func GetBannerDetail(ctx context.Context, q sqlx.ExtContext, id int64) (*models.BannerDetail, error) {
	var d models.BannerDetail
	if err := get(ctx, q, &d, "SELECT id, banner_id, product_id FROM banner_details WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &d, nil
}

func BannerDetailExists(ctx context.Context, q sqlx.ExtContext, bannerID, productID int64) (bool, error) {
	n, err := count(ctx, q, "SELECT COUNT(*) FROM banner_details WHERE banner_id = ? AND product_id = ?", bannerID, productID)
	return n > 0, err
}

func InsertBannerDetail(ctx context.Context, q sqlx.ExtContext, d *models.BannerDetail) error {
	id, err := insert(ctx, q, "INSERT INTO banner_details (banner_id, product_id) VALUES (?, ?)", d.BannerID, d.ProductID)
	if err != nil {
		return fmt.Errorf("failed to insert banner detail: %w", err)
	}
	d.ID = id
	return nil
}

func DeleteBannerDetail(ctx context.Context, q sqlx.ExtContext, id int64) error {
	_, err := exec(ctx, q, "DELETE FROM banner_details WHERE id = ?", id)
	return err
}

// --- Actualités ---

const newsColumns = "id, title, image, content, created_at, updated_at"

func ListNews(ctx context.Context, q sqlx.ExtContext, page models.Page, search string) ([]models.News, int, error) {
	var w where
	if search != "" {
		w.add("LOWER(title) LIKE ?", likePattern(search))
	}
	total, err := count(ctx, q, "SELECT COUNT(*) FROM news"+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count news: %w", err)
	}
	var out []models.News
	args := append(append([]any{}, w.args...), page.Size, page.Offset())
	if err := selectAll(ctx, q, &out, "SELECT "+newsColumns+" FROM news"+w.String()+" ORDER BY id DESC LIMIT ? OFFSET ?", args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list news: %w", err)
	}
	return out, total, nil
}

func GetNews(ctx context.Context, q sqlx.ExtContext, id int64) (*models.News, error) {
	var n models.News
	if err := get(ctx, q, &n, "SELECT "+newsColumns+" FROM news WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &n, nil
}

func InsertNews(ctx context.Context, q sqlx.ExtContext, n *models.News) error {
	n.CreatedAt, n.UpdatedAt = now(), now()
	id, err := insert(ctx, q, "INSERT INTO news (title, image, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		n.Title, n.Image, n.Content, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert news: %w", err)
	}
	n.ID = id
	return nil
}

func UpdateNews(ctx context.Context, q sqlx.ExtContext, n *models.News) error {
	n.UpdatedAt = now()
	if _, err := exec(ctx, q, "UPDATE news SET title = ?, image = ?, content = ?, updated_at = ? WHERE id = ?",
		n.Title, n.Image, n.Content, n.UpdatedAt, n.ID); err != nil {
		return fmt.Errorf("failed to update news: %w", err)
	}
	return nil
}

func DeleteNews(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := exec(ctx, q, "DELETE FROM news_details WHERE news_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete news details: %w", err)
	}
	if _, err := exec(ctx, q, "DELETE FROM news WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}
	return nil
}

func ListNewsDetails(ctx context.Context, q sqlx.ExtContext, newsID int64) ([]models.NewsDetail, error) {
	var out []models.NewsDetail
	var w where
	if newsID > 0 {
		w.add("news_id = ?", newsID)
	}
	if err := selectAll(ctx, q, &out, "SELECT id, news_id, product_id FROM news_details"+w.String()+" ORDER BY id", w.args...); err != nil {
		return nil, fmt.Errorf("failed to list news details: %w", err)
	}
	return out, nil
}

func GetNewsDetail(ctx context.Context, q sqlx.ExtContext, id int64) (*models.NewsDetail, error) {
	var d models.NewsDetail
	if err := get(ctx, q, &d, "SELECT id, news_id, product_id FROM news_details WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &d, nil
}

func NewsDetailExists(ctx context.Context, q sqlx.ExtContext, newsID, productID int64) (bool, error) {
	n, err := count(ctx, q, "SELECT COUNT(*) FROM news_details WHERE news_id = ? AND product_id = ?", newsID, productID)
	return n > 0, err
}

func InsertNewsDetail(ctx context.Context, q sqlx.ExtContext, d *models.NewsDetail) error {
	id, err := insert(ctx, q, "INSERT INTO news_details (news_id, product_id) VALUES (?, ?)", d.NewsID, d.ProductID)
	if err != nil {
		return fmt.Errorf("failed to insert news detail: %w", err)
	}
	d.ID = id
	return nil
}

func DeleteNewsDetail(ctx context.Context, q sqlx.ExtContext, id int64) error {
	_, err := exec(ctx, q, "DELETE FROM news_details WHERE id = ?", id)
	return err
}

// --- Avis ---

func ListFeedbacks(ctx context.Context, q sqlx.ExtContext, productID int64) ([]models.Feedback, error) {
	var out []models.Feedback
	if err := selectAll(ctx, q, &out, "SELECT id, product_id, user_id, star, content, created_at FROM feedbacks WHERE product_id = ? ORDER BY id DESC", productID); err != nil {
		return nil, fmt.Errorf("failed to list feedbacks: %w", err)
	}
	return out, nil
}

func InsertFeedback(ctx context.Context, q sqlx.ExtContext, f *models.Feedback) error {
	f.CreatedAt = now()
	id, err := insert(ctx, q, "INSERT INTO feedbacks (product_id, user_id, star, content, created_at) VALUES (?, ?, ?, ?, ?)",
		f.ProductID, f.UserID, f.Star, f.Content, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	f.ID = id
	return nil
}
