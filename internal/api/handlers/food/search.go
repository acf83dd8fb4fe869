package food

import (
	"net/http"
	"strings"

	foodService "calorie-search/internal/core/food"
	"calorie-search/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食物搜尋處理器
type Handler struct {
	searchService *foodService.SearchService
}

// NewHandler 創建食物搜尋處理器
func NewHandler(searchService *foodService.SearchService) *Handler {
	return &Handler{
		searchService: searchService,
	}
}

// HandleSearch 處理 GET /api/v1/food/search?q=...
// q 缺失或空白 → 400 {"error":"Missing q"}
// 成功 → 200 {"items":[{name,kcal_per_100g,source}...]}
func (h *Handler) HandleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing q",
		})
		return
	}

	searchID := common.GenerateUUID()
	common.LogInfo("收到食物搜尋請求",
		zap.String("search_id", searchID),
		zap.String("q", query),
		zap.String("request_id", c.GetHeader("X-Request-ID")),
	)

	items := h.searchService.Search(c.Request.Context(), query)
	// items 為空時仍回傳 []，不回傳 null
	if items == nil {
		items = []common.FoodRecord{}
	}

	common.LogInfo("回應食物搜尋結果",
		zap.String("search_id", searchID),
		zap.Int("items", len(items)),
	)

	c.JSON(http.StatusOK, common.SearchResponse{
		Items: items,
	})
}
