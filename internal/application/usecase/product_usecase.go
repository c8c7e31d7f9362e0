package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// DefaultLowStockThreshold cantidad a partir de la cual (inclusive) un producto tiene stock bajo.
const DefaultLowStockThreshold = 3

const dateLayout = "2006-01-02"

// ProductUseCase registro, edición y baja de productos con sus avisos de inventario.
// Los avisos se emiten explícitamente aquí, nunca desde el almacén.
type ProductUseCase struct {
	products  repository.ProductRepository
	notifier  ProductNotifier
	threshold int
	log       *logger.Logger
	now       func() time.Time
}

// NewProductUseCase construye el caso de uso. threshold < 0 usa DefaultLowStockThreshold.
func NewProductUseCase(products repository.ProductRepository, notifier ProductNotifier, threshold int, log *logger.Logger) *ProductUseCase {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{
		products:  products,
		notifier:  notifier,
		threshold: threshold,
		log:       log.Named("products"),
		now:       time.Now,
	}
}

// Threshold umbral de stock bajo configurado.
func (uc *ProductUseCase) Threshold() int { return uc.threshold }

// Register crea un producto. Sin área usa la del usuario si es válida.
// Tras insertar avisa la creación y, si corresponde, el stock bajo.
func (uc *ProductUseCase) Register(ctx context.Context, actor *auth.UserData, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: el código es requerido", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}
	area := in.Area
	if area == "" && entity.IsValidArea(actor.Area) {
		area = actor.Area
	}
	if !entity.IsValidArea(area) {
		return nil, fmt.Errorf("%w: área inválida %q", domain.ErrInvalidInput, area)
	}

	now := uc.now().UTC()
	p := &entity.Product{
		CompanyID:   actor.CompanyID,
		Code:        code,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
		Area:        area,
		Supplier:    strings.TrimSpace(in.Supplier),
		Photos:      []entity.Photo{},
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("registrar producto: %w", err)
	}

	if _, err := uc.notifier.CreateProductCreated(ctx, p); err != nil {
		uc.log.Error().Err(err).Int64("product_id", p.ID).Msg("aviso de producto creado")
	}
	uc.checkLowStock(ctx, p)

	out := toProductResponse(p, uc.threshold)
	return &out, nil
}

// List productos de la empresa del actor, más recientes primero.
func (uc *ProductUseCase) List(ctx context.Context, actor *auth.UserData, f dto.ProductFilter) (*dto.ProductListResponse, error) {
	list, err := uc.find(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}
	pageItems, page := paginate(list, f.PageRequest)
	return &dto.ProductListResponse{Items: uc.responses(pageItems), Page: page}, nil
}

// ByArea productos de un área sin paginar, para el detalle del dashboard.
func (uc *ProductUseCase) ByArea(ctx context.Context, actor *auth.UserData, area, from, to string) ([]dto.ProductResponse, error) {
	if !entity.IsValidArea(area) {
		return nil, fmt.Errorf("%w: área inválida %q", domain.ErrInvalidInput, area)
	}
	list, err := uc.find(ctx, actor.CompanyID, dto.ProductFilter{Area: area, From: from, To: to})
	if err != nil {
		return nil, err
	}
	return uc.responses(list), nil
}

// Get detalle de un producto.
func (uc *ProductUseCase) Get(ctx context.Context, actor *auth.UserData, id int64) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(p, uc.threshold)
	return &out, nil
}

// Update aplica solo los campos presentes. Si la cantidad resultante es baja se avisa.
func (uc *ProductUseCase) Update(ctx context.Context, actor *auth.UserData, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Code != nil && strings.TrimSpace(*in.Code) == "" {
		return nil, fmt.Errorf("%w: el código es requerido", domain.ErrInvalidInput)
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if in.Area != nil && !entity.IsValidArea(*in.Area) {
		return nil, fmt.Errorf("%w: área inválida %q", domain.ErrInvalidInput, *in.Area)
	}
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := uc.products.Modify(ctx, id, func(p *entity.Product) error {
		if in.Code != nil {
			p.Code = strings.TrimSpace(*in.Code)
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
		}
		if in.Quantity != nil {
			p.Quantity = *in.Quantity
		}
		if in.Area != nil {
			p.Area = *in.Area
		}
		if in.Supplier != nil {
			p.Supplier = strings.TrimSpace(*in.Supplier)
		}
		p.UpdatedAt = uc.now().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	uc.checkLowStock(ctx, updated)

	out := toProductResponse(updated, uc.threshold)
	return &out, nil
}

// Delete elimina el producto. Solo si el almacén confirma el borrado se avisa la baja.
func (uc *ProductUseCase) Delete(ctx context.Context, actor *auth.UserData, id int64) error {
	p, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	removed, err := uc.products.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("eliminar producto: %w", err)
	}
	if !removed {
		return domain.ErrNotFound
	}
	if _, err := uc.notifier.CreateProductDeleted(ctx, p); err != nil {
		uc.log.Error().Err(err).Int64("product_id", p.ID).Msg("aviso de producto eliminado")
	}
	return nil
}

// AddPhoto adjunta una imagen al producto.
func (uc *ProductUseCase) AddPhoto(ctx context.Context, actor *auth.UserData, id int64, name, url string) (*dto.ProductResponse, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: la foto no tiene contenido", domain.ErrInvalidInput)
	}
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}
	updated, err := uc.products.Modify(ctx, id, func(p *entity.Product) error {
		p.Photos = append(p.Photos, entity.Photo{ID: uuid.NewString(), URL: url, Name: name})
		p.UpdatedAt = uc.now().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("agregar foto: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	out := toProductResponse(updated, uc.threshold)
	return &out, nil
}

// RemovePhoto quita la foto photoID. ErrNotFound si el producto o la foto no existen.
func (uc *ProductUseCase) RemovePhoto(ctx context.Context, actor *auth.UserData, id int64, photoID string) (*dto.ProductResponse, error) {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}
	updated, err := uc.products.Modify(ctx, id, func(p *entity.Product) error {
		_, idx, found := lo.FindIndexOf(p.Photos, func(ph entity.Photo) bool { return ph.ID == photoID })
		if !found {
			return fmt.Errorf("%w: foto %s", domain.ErrNotFound, photoID)
		}
		p.Photos = append(p.Photos[:idx:idx], p.Photos[idx+1:]...)
		p.UpdatedAt = uc.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	out := toProductResponse(updated, uc.threshold)
	return &out, nil
}

// SweepLowStock recorre todos los productos y avisa los que tienen stock bajo.
// Los avisos son idempotentes por producto, así que repetir el barrido no duplica.
// Devuelve cuántos productos están bajo el umbral.
func (uc *ProductUseCase) SweepLowStock(ctx context.Context) (int, error) {
	all, err := uc.products.Find(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("barrido de stock bajo: %w", err)
	}
	low := lo.Filter(all, func(p *entity.Product, _ int) bool { return p.IsLowStock(uc.threshold) })
	for _, p := range low {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := uc.notifier.CreateLowStock(ctx, p); err != nil {
			return 0, fmt.Errorf("barrido de stock bajo: producto %d: %w", p.ID, err)
		}
	}
	return len(low), nil
}

func (uc *ProductUseCase) checkLowStock(ctx context.Context, p *entity.Product) {
	if !p.IsLowStock(uc.threshold) {
		return
	}
	if _, err := uc.notifier.CreateLowStock(ctx, p); err != nil {
		uc.log.Error().Err(err).Int64("product_id", p.ID).Msg("aviso de stock bajo")
	}
}

// find aplica área, búsqueda y rango de fechas; ordena por created_at descendente.
func (uc *ProductUseCase) find(ctx context.Context, companyID int64, f dto.ProductFilter) ([]*entity.Product, error) {
	from, to, err := parseDateRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	criteria := repository.Criteria{"company_id": companyID}
	if f.Area != "" {
		criteria["area"] = f.Area
	}
	list, err := uc.products.Find(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	list = lo.Filter(list, func(p *entity.Product, _ int) bool {
		if !from.IsZero() && p.CreatedAt.Before(from) {
			return false
		}
		if !to.IsZero() && p.CreatedAt.After(to) {
			return false
		}
		return containsFolded(f.Search, p.Code, p.Description, p.Supplier)
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (uc *ProductUseCase) responses(list []*entity.Product) []dto.ProductResponse {
	return lo.Map(list, func(p *entity.Product, _ int) dto.ProductResponse {
		return toProductResponse(p, uc.threshold)
	})
}

func (uc *ProductUseCase) load(ctx context.Context, actor *auth.UserData, id int64) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil || p.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// parseDateRange interpreta [from, to] en UTC; to incluye el día completo.
func parseDateRange(fromS, toS string) (from, to time.Time, err error) {
	if fromS != "" {
		from, err = time.Parse(dateLayout, fromS)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha inicial inválida %q", domain.ErrInvalidInput, fromS)
		}
	}
	if toS != "" {
		to, err = time.Parse(dateLayout, toS)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha final inválida %q", domain.ErrInvalidInput, toS)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}
	return from, to, nil
}
