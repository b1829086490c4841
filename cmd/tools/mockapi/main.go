// mockapi is a local stand-in for the production REST API. It serves the
// cart, order, product and auth endpoints against a throwaway sqlite file
// so the storefront runs without any remote infrastructure.
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/imrfidelz/djk-sub001/internal/modules/orders"
)

type User struct {
	ID           string `gorm:"primaryKey;type:char(36)"`
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash []byte
	Role         string
}

type Product struct {
	ID         string `gorm:"primaryKey;type:char(36)"`
	Name       string
	Slug       string `gorm:"uniqueIndex"`
	PriceCents int
	Stock      int
	Image      string
}

type Cart struct {
	ID     string `gorm:"primaryKey;type:char(36)"`
	UserID string `gorm:"uniqueIndex"`
	Items  []CartItem
}

type CartItem struct {
	ID        string `gorm:"primaryKey;type:char(36)"`
	CartID    string `gorm:"uniqueIndex:ux_cart_variant"`
	ProductID string `gorm:"uniqueIndex:ux_cart_variant"`
	Size      string `gorm:"uniqueIndex:ux_cart_variant"`
	Color     string `gorm:"uniqueIndex:ux_cart_variant"`
	Quantity  int
}

type Order struct {
	ID              string `gorm:"primaryKey;type:char(36)"`
	UserID          string `gorm:"index"`
	Status          string
	IsPaid          bool
	PaidAt          *time.Time
	PaymentMethod   string
	TotalPriceCents int
	CreatedAt       time.Time
	Items           []OrderItem
}

type OrderItem struct {
	ID             string `gorm:"primaryKey;type:char(36)"`
	OrderID        string `gorm:"index"`
	ProductID      string
	Name           string
	Quantity       int
	UnitPriceCents int
	Size           string
	Color          string
}

type OrderEvent struct {
	ID         string `gorm:"primaryKey;type:char(36)"`
	OrderID    string `gorm:"index"`
	FromStatus string
	ToStatus   string
	Note       *string
	CreatedAt  time.Time
}

type server struct {
	db     *gorm.DB
	secret []byte
}

func main() {
	dbPath := os.Getenv("MOCKAPI_DB")
	if dbPath == "" {
		dbPath = "./mockapi.db"
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Product{}, &Cart{}, &CartItem{}, &Order{}, &OrderItem{}, &OrderEvent{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	secret := os.Getenv("MOCKAPI_JWT_SECRET")
	if secret == "" {
		secret = "mockapi-dev-secret"
	}

	s := &server{db: db, secret: []byte(secret)}
	s.seed()

	r := gin.Default()

	r.POST("/auth/login", s.login)
	r.GET("/auth/me", s.me)
	r.POST("/auth/logout", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.GET("/products", s.listProducts)
	r.GET("/products/:id", s.getProduct)

	r.GET("/carts/:userId", s.getCart)
	r.POST("/carts", s.upsertCart)
	r.DELETE("/carts/:cartId", s.deleteCart)

	r.GET("/orders", s.listOrders)
	r.GET("/orders/:id", s.getOrder)
	r.PUT("/orders/:id/status", s.updateOrderStatus)
	r.PUT("/orders/:id/paid", s.markOrderPaid)

	addr := os.Getenv("MOCKAPI_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	log.Printf("mockapi listening on %s (db=%s)", addr, dbPath)
	_ = r.Run(addr)
}

func (s *server) seed() {
	var count int64
	s.db.Model(&User{}).Count(&count)
	if count > 0 {
		return
	}

	hash := func(pw string) []byte {
		h, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		return h
	}

	admin := User{ID: uuid.NewString(), Name: "Admin", Email: "admin@example.com", PasswordHash: hash("admin-password"), Role: "admin"}
	client := User{ID: uuid.NewString(), Name: "Client", Email: "client@example.com", PasswordHash: hash("client-password"), Role: "customer"}
	s.db.Create(&admin)
	s.db.Create(&client)

	scarf := Product{ID: uuid.NewString(), Name: "Silk Scarf", Slug: "silk-scarf", PriceCents: 25000, Stock: 12}
	wrap := Product{ID: uuid.NewString(), Name: "Cashmere Wrap", Slug: "cashmere-wrap", PriceCents: 62000, Stock: 5}
	clutch := Product{ID: uuid.NewString(), Name: "Leather Clutch", Slug: "leather-clutch", PriceCents: 98000, Stock: 3}
	s.db.Create(&scarf)
	s.db.Create(&wrap)
	s.db.Create(&clutch)

	// a few orders in mixed states so the admin screens have something to show
	now := time.Now()
	paidAt := now.Add(-20 * time.Hour)
	s.db.Create(&Order{
		ID: uuid.NewString(), UserID: client.ID, Status: string(orders.StatusPending),
		PaymentMethod: "cod", TotalPriceCents: 50000, CreatedAt: now.Add(-2 * time.Hour),
		Items: []OrderItem{
			{ID: uuid.NewString(), ProductID: scarf.ID, Name: scarf.Name, Quantity: 2, UnitPriceCents: scarf.PriceCents},
		},
	})
	s.db.Create(&Order{
		ID: uuid.NewString(), UserID: client.ID, Status: string(orders.StatusProcessing),
		IsPaid: true, PaidAt: &paidAt, PaymentMethod: "card", TotalPriceCents: 62000,
		CreatedAt: now.Add(-26 * time.Hour),
		Items: []OrderItem{
			{ID: uuid.NewString(), ProductID: wrap.ID, Name: wrap.Name, Quantity: 1, UnitPriceCents: wrap.PriceCents},
		},
	})
	s.db.Create(&Order{
		ID: uuid.NewString(), UserID: client.ID, Status: string(orders.StatusDelivered),
		IsPaid: true, PaidAt: &paidAt, PaymentMethod: "card", TotalPriceCents: 98000,
		CreatedAt: now.Add(-6 * 24 * time.Hour),
		Items: []OrderItem{
			{ID: uuid.NewString(), ProductID: clutch.ID, Name: clutch.Name, Quantity: 1, UnitPriceCents: clutch.PriceCents},
		},
	})
	log.Printf("seeded demo users, products and orders")
}

// --- auth ---

type claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *server) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}

	var u User
	if err := s.db.First(&u, "email = ?", strings.ToLower(in.Email)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed, "user": userJSON(u)})
}

func (s *server) authenticate(c *gin.Context) (*User, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
		return nil, false
	}

	var cl claims
	tok, err := jwt.ParseWithClaims(strings.TrimPrefix(h, "Bearer "), &cl, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "session expired, please sign in again"})
		return nil, false
	}

	var u User
	if err := s.db.First(&u, "id = ?", cl.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
		return nil, false
	}
	return &u, true
}

func (s *server) me(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userJSON(*u))
}

func userJSON(u User) gin.H {
	return gin.H{"_id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role}
}

// --- products ---

func (s *server) listProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "30"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 30
	}

	q := s.db.Model(&Product{})
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		q = q.Where("name LIKE ?", "%"+term+"%")
	}

	var total int64
	q.Count(&total)
	var items []Product
	q.Limit(size).Offset((page - 1) * size).Find(&items)

	out := make([]gin.H, 0, len(items))
	for _, p := range items {
		out = append(out, productJSON(p))
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "total": total})
}

func (s *server) getProduct(c *gin.Context) {
	var p Product
	if err := s.db.First(&p, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, productJSON(p))
}

func productJSON(p Product) gin.H {
	return gin.H{"_id": p.ID, "name": p.Name, "slug": p.Slug, "priceCents": p.PriceCents, "stock": p.Stock, "image": p.Image}
}

// --- carts ---

func (s *server) getCart(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}
	userID := c.Param("userId")
	if u.ID != userID && u.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your cart"})
		return
	}

	var cart Cart
	if err := s.db.Preload("Items").First(&cart, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cart"})
		return
	}
	c.JSON(http.StatusOK, s.cartJSON(cart))
}

func (s *server) upsertCart(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}

	var in struct {
		UserID string `json:"userId"`
		Items  []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
			Size      string `json:"size"`
			Color     string `json:"color"`
		} `json:"items"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart payload"})
		return
	}
	if in.UserID == "" {
		in.UserID = u.ID
	}
	if u.ID != in.UserID && u.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your cart"})
		return
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
			return
		}
	}

	var cart Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(Cart{UserID: in.UserID}).Attrs(Cart{ID: uuid.NewString()}).FirstOrCreate(&cart).Error; err != nil {
			return err
		}
		for _, it := range in.Items {
			item := CartItem{
				ID:        uuid.NewString(),
				CartID:    cart.ID,
				ProductID: it.ProductID,
				Size:      it.Size,
				Color:     it.Color,
				Quantity:  it.Quantity,
			}
			// merge-by-variant: same (cart, product, size, color) adds up
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "size"}, {Name: "color"}},
				DoUpdates: clause.Assignments(map[string]any{
					"quantity": gorm.Expr("quantity + excluded.quantity"),
				}),
			}).Create(&item).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Items").First(&cart, "id = ?", cart.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upsert cart failed"})
		return
	}

	c.JSON(http.StatusOK, s.cartJSON(cart))
}

func (s *server) deleteCart(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}

	var cart Cart
	if err := s.db.First(&cart, "id = ?", c.Param("cartId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cart"})
		return
	}
	if u.ID != cart.UserID && u.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your cart"})
		return
	}

	s.db.Where("cart_id = ?", cart.ID).Delete(&CartItem{})
	s.db.Delete(&cart)
	c.Status(http.StatusNoContent)
}

// cartJSON computes totalPriceCents server-side; clients never derive it.
func (s *server) cartJSON(cart Cart) gin.H {
	items := make([]gin.H, 0, len(cart.Items))
	total := 0
	for _, it := range cart.Items {
		items = append(items, gin.H{
			"product":  it.ProductID,
			"quantity": it.Quantity,
			"size":     it.Size,
			"color":    it.Color,
		})
		var p Product
		if err := s.db.First(&p, "id = ?", it.ProductID).Error; err == nil && it.Quantity > 0 {
			total += p.PriceCents * it.Quantity
		}
	}
	return gin.H{"_id": cart.ID, "user": cart.UserID, "items": items, "totalPriceCents": total}
}

// --- orders ---

func (s *server) listOrders(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "30"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 30
	}

	q := s.db.Model(&Order{})
	if u.Role != "admin" {
		q = q.Where("user_id = ?", u.ID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)
	var items []Order
	q.Preload("Items").Order("created_at DESC").Limit(size).Offset((page - 1) * size).Find(&items)

	out := make([]gin.H, 0, len(items))
	for _, o := range items {
		out = append(out, orderJSON(o))
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "total": total})
}

func (s *server) getOrder(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	var o Order
	if err := s.db.Preload("Items").First(&o, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, orderJSON(o))
}

func (s *server) updateOrderStatus(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}
	if u.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	var in struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status payload"})
		return
	}

	var o Order
	if err := s.db.Preload("Items").First(&o, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	from := orders.Status(o.Status)
	to := orders.Status(in.Status)
	if !orders.CanTransition(from, to) {
		c.JSON(http.StatusConflict, gin.H{"message": "illegal status transition"})
		return
	}
	if from == to {
		c.JSON(http.StatusOK, orderJSON(o))
		return
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// optimistic guard: only move the row if it is still in `from`
		res := tx.Model(&Order{}).Where("id = ? AND status = ?", o.ID, o.Status).Update("status", in.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return gorm.ErrInvalidTransaction
		}
		var notePtr *string
		if n := strings.TrimSpace(in.Note); n != "" {
			notePtr = &n
		}
		return tx.Create(&OrderEvent{
			ID:         uuid.NewString(),
			OrderID:    o.ID,
			FromStatus: o.Status,
			ToStatus:   in.Status,
			Note:       notePtr,
			CreatedAt:  now,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "order changed concurrently, reload and retry"})
		return
	}

	o.Status = in.Status
	c.JSON(http.StatusOK, orderJSON(o))
}

func (s *server) markOrderPaid(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}
	if u.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	var o Order
	if err := s.db.Preload("Items").First(&o, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if !o.IsPaid {
		now := time.Now()
		o.IsPaid = true
		o.PaidAt = &now
		if err := s.db.Model(&Order{}).Where("id = ?", o.ID).Updates(map[string]any{"is_paid": true, "paid_at": now}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mark paid failed"})
			return
		}
	}
	c.JSON(http.StatusOK, orderJSON(o))
}

func orderJSON(o Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, gin.H{
			"product":        it.ProductID,
			"name":           it.Name,
			"quantity":       it.Quantity,
			"unitPriceCents": it.UnitPriceCents,
			"size":           it.Size,
			"color":          it.Color,
		})
	}
	out := gin.H{
		"_id":             o.ID,
		"user":            o.UserID,
		"status":          o.Status,
		"isPaid":          o.IsPaid,
		"paymentMethod":   o.PaymentMethod,
		"totalPriceCents": o.TotalPriceCents,
		"items":           items,
		"createdAt":       o.CreatedAt,
	}
	if o.PaidAt != nil {
		out["paidAt"] = o.PaidAt
	}
	return out
}
