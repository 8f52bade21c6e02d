package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pulse/database"
	"pulse/internal/api/respond"
	"pulse/internal/domain/access"
	"pulse/internal/domain/analytics"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/billing"
	"pulse/internal/domain/pages"
	"pulse/internal/domain/plans"
	"pulse/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Plan      *string   `json:"plan"`
	Status    *string   `json:"status"`
	Username  *string   `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type AdminStats struct {
	TotalUsers     int64          `json:"totalUsers"`
	TotalPages     int64          `json:"totalPages"`
	PublishedPages int64          `json:"publishedPages"`
	RecentViews    int64          `json:"recentViews"`
	RecentClicks   int64          `json:"recentClicks"`
	UsersPerPlan   map[string]int `json:"usersPerPlan"`
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	var out []AdminUser
	err := database.DB.WithContext(c.Request.Context()).
		Table("users").
		Select("users.id, users.name, users.email, users.role, users.created_at, " +
			"subscriptions.plan AS plan, subscriptions.status AS status, pages.username AS username").
		Joins("LEFT JOIN subscriptions ON subscriptions.user_id = users.id").
		Joins("LEFT JOIN pages ON pages.user_id = users.id").
		Order("users.id ASC").
		Scan(&out).Error
	if err != nil {
		respond.Error(c, err)
		return
	}
	if out == nil {
		out = []AdminUser{}
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/stats
func GetAdminStats(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	var stats AdminStats
	since := time.Now().AddDate(0, 0, -30)

	steps := []*gorm.DB{
		db.Model(&users.User{}).Count(&stats.TotalUsers),
		db.Model(&pages.Page{}).Count(&stats.TotalPages),
		db.Model(&pages.Page{}).Where("published = ?", true).Count(&stats.PublishedPages),
		db.Model(&analytics.PageView{}).Where("created_at >= ?", since).Count(&stats.RecentViews),
		db.Model(&analytics.BlockClick{}).Where("created_at >= ?", since).Count(&stats.RecentClicks),
	}
	for _, s := range steps {
		if s.Error != nil {
			respond.Error(c, s.Error)
			return
		}
	}

	var subs []billing.Subscription
	if err := db.Select("plan", "status", "current_period_end").Find(&subs).Error; err != nil {
		respond.Error(c, err)
		return
	}
	// counts effective plans, so lapsed paid subscriptions show as FREE
	stats.UsersPerPlan = map[string]int{plans.TierFree: 0, plans.TierPlus: 0, plans.TierPlusYearly: 0}
	now := time.Now()
	for i := range subs {
		stats.UsersPerPlan[access.EffectivePlan(now, &subs[i])]++
	}

	c.JSON(http.StatusOK, stats)
}

// GET /admin/user/:id
func GetUserDetails(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, apperr.ErrNotFound)
		return
	}

	var user users.User
	if err := db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond.Error(c, apperr.ErrNotFound)
			return
		}
		respond.Error(c, err)
		return
	}

	var sub *billing.Subscription
	var row billing.Subscription
	switch err := db.Where("user_id = ?", user.ID).First(&row).Error; {
	case err == nil:
		sub = &row
	case !errors.Is(err, gorm.ErrRecordNotFound):
		respond.Error(c, err)
		return
	}

	page, err := pages.FindForUser(db, user.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"subscription": sub,
		"page":         page,
	})
}
