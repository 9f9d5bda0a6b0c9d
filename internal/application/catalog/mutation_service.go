package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/internal/domain/entity"
	"github.com/jhoicas/catalogo-calzado/internal/domain/repository"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

// MutationService único escritor del inventario. Valida todo antes de escribir, aplica cada
// cambio en una transacción y, tras el commit, difunde la lista canónica completa.
type MutationService struct {
	txRunner    TxRunner
	reader      repository.ProductRepository
	broadcaster Broadcaster
	log         *logger.Logger
	tracer      trace.Tracer
	now         func() time.Time

	// pubMu serializa relectura + publicación: las difusiones salen en orden de snapshot.
	pubMu sync.Mutex
	seq   uint64
}

// NewMutationService construye el servicio. reader debe estar atado al pool (fuera de transacción).
func NewMutationService(txRunner TxRunner, reader repository.ProductRepository, broadcaster Broadcaster, log *logger.Logger) *MutationService {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MutationService{
		txRunner:    txRunner,
		reader:      reader,
		broadcaster: broadcaster,
		log:         log,
		tracer:      otel.Tracer("catalogo-calzado/catalog"),
		now:         time.Now,
	}
}

// CreateProduct inserta el producto y todas sus tallas en una sola transacción y devuelve el ID.
func (s *MutationService) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateProduct")
	defer span.End()

	fields, err := validateProduct(in.Product)
	if err != nil {
		return "", s.fail(span, "create_product", err)
	}
	sizes, err := validateSizes(in.Sizes)
	if err != nil {
		return "", s.fail(span, "create_product", err)
	}

	now := s.now().UTC()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Title:     fields.Title,
		Brand:     fields.Brand,
		Price:     fields.Price,
		ImageURL:  fields.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, stockRepo repository.StockRepository) error {
		existing, err := productRepo.GetByTitle(ctx, product.Title)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateTitle(product.Title)
		}
		if err := productRepo.Create(ctx, product); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateTitle(product.Title)
			}
			return err
		}
		for _, sz := range sizes {
			row := &entity.SizeStock{ProductID: product.ID, Size: sz.Size, Stock: sz.Stock, CreatedAt: now, UpdatedAt: now}
			if err := stockRepo.Insert(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", s.fail(span, "create_product", err)
	}

	span.SetAttributes(attribute.String("product.id", product.ID))
	s.log.Info().Str("product_id", product.ID).Str("title", product.Title).Int("sizes", len(sizes)).Msg("producto creado")
	s.publish(ctx, EventProductsUpdated)
	return product.ID, nil
}

// UpdateStock aplica el lote completo (upsert por producto+talla) en una transacción.
// Una entrada inválida o un producto inexistente revierte todo el lote.
func (s *MutationService) UpdateStock(ctx context.Context, updates []dto.StockUpdate) error {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateStock")
	defer span.End()

	changes, err := validateStockUpdates(updates)
	if err != nil {
		return s.fail(span, "update_stock", err)
	}
	span.SetAttributes(attribute.Int("updates", len(changes)))

	now := s.now().UTC()
	err = s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, stockRepo repository.StockRepository) error {
		for _, id := range productIDs(changes) {
			p, err := productRepo.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NotFound("producto " + id)
			}
		}
		for _, c := range changes {
			row := &entity.SizeStock{ProductID: c.ProductID, Size: c.Size, Stock: c.Stock, CreatedAt: now, UpdatedAt: now}
			if err := stockRepo.Upsert(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.fail(span, "update_stock", err)
	}

	s.log.Info().Int("updates", len(changes)).Msg("stock actualizado")
	s.publish(ctx, EventStockUpdated)
	return nil
}

// UpdateProduct reemplaza título, marca, precio e imagen. El título sigue siendo único.
func (s *MutationService) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest) (dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	if id == "" {
		return dto.ProductResponse{}, s.fail(span, "update_product", domain.Invalid("id", "es obligatorio"))
	}
	fields, err := validateProduct(in.Product)
	if err != nil {
		return dto.ProductResponse{}, s.fail(span, "update_product", err)
	}

	var updated *entity.Product
	err = s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.StockRepository) error {
		p, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("producto " + id)
		}
		other, err := productRepo.GetByTitle(ctx, fields.Title)
		if err != nil {
			return err
		}
		if other != nil && other.ID != p.ID {
			return duplicateTitle(fields.Title)
		}
		p.Title = fields.Title
		p.Brand = fields.Brand
		p.Price = fields.Price
		p.ImageURL = fields.ImageURL
		p.UpdatedAt = s.now().UTC()
		if err := productRepo.Update(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateTitle(fields.Title)
			}
			return err
		}
		updated, err = productRepo.GetWithSizes(ctx, id)
		return err
	})
	if err != nil {
		return dto.ProductResponse{}, s.fail(span, "update_product", err)
	}
	if updated == nil {
		return dto.ProductResponse{}, s.fail(span, "update_product", fmt.Errorf("producto %s desapareció tras actualizar", id))
	}

	s.log.Info().Str("product_id", id).Str("title", updated.Title).Msg("producto actualizado")
	s.publish(ctx, EventProductsUpdated)
	return toProductResponse(updated), nil
}

// DeleteProduct elimina el producto y sus tallas (cascada).
func (s *MutationService) DeleteProduct(ctx context.Context, id string) (dto.DeletedProduct, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	var deleted dto.DeletedProduct
	err := s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.StockRepository) error {
		p, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("producto " + id)
		}
		ok, err := productRepo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("producto " + id)
		}
		deleted = dto.DeletedProduct{ID: p.ID, Title: p.Title}
		return nil
	})
	if err != nil {
		return dto.DeletedProduct{}, s.fail(span, "delete_product", err)
	}

	s.log.Info().Str("product_id", deleted.ID).Str("title", deleted.Title).Msg("producto eliminado")
	s.publish(ctx, EventProductsUpdated)
	return deleted, nil
}

// AddSize agrega una talla nueva a un producto existente.
func (s *MutationService) AddSize(ctx context.Context, id string, in dto.AddSizeRequest) (dto.SizeMutationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.AddSize", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	label, err := validateSizeLabel(in.Size)
	if err != nil {
		return dto.SizeMutationResponse{}, s.fail(span, "add_size", err)
	}
	stock, err := validateStock(in.Stock)
	if err != nil {
		return dto.SizeMutationResponse{}, s.fail(span, "add_size", err)
	}

	var title string
	now := s.now().UTC()
	err = s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, stockRepo repository.StockRepository) error {
		p, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("producto " + id)
		}
		title = p.Title
		existing, err := stockRepo.Get(ctx, id, label)
		if err != nil {
			return err
		}
		dupErr := &domain.ValidationError{Field: "size", Reason: fmt.Sprintf("la talla %s ya existe para este producto", label), Err: domain.ErrDuplicate}
		if existing != nil {
			return dupErr
		}
		err = stockRepo.Insert(ctx, &entity.SizeStock{ProductID: id, Size: label, Stock: stock, CreatedAt: now, UpdatedAt: now})
		if errors.Is(err, domain.ErrDuplicate) {
			return dupErr
		}
		return err
	})
	if err != nil {
		return dto.SizeMutationResponse{}, s.fail(span, "add_size", err)
	}

	s.log.Info().Str("product_id", id).Str("size", label).Int("stock", stock).Msg("talla agregada")
	s.publish(ctx, EventProductsUpdated)
	return dto.SizeMutationResponse{
		Message:      "Talla agregada exitosamente",
		ProductID:    id,
		ProductTitle: title,
		Size:         label,
		Stock:        &stock,
	}, nil
}

// RemoveSize elimina una talla. Nunca deja un producto sin tallas.
func (s *MutationService) RemoveSize(ctx context.Context, id, size string) (dto.SizeMutationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.RemoveSize", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	label, err := validateSizeLabel(dto.FlexString(size))
	if err != nil {
		return dto.SizeMutationResponse{}, s.fail(span, "remove_size", err)
	}

	var title string
	err = s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, stockRepo repository.StockRepository) error {
		// El bloqueo del producto serializa eliminaciones concurrentes sobre sus tallas.
		p, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("producto " + id)
		}
		title = p.Title
		existing, err := stockRepo.Get(ctx, id, label)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.NotFound("talla " + label)
		}
		count, err := stockRepo.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if count <= 1 {
			return &domain.ValidationError{
				Field:  "size",
				Reason: "no se puede eliminar la última talla del producto",
				Err:    domain.ErrLastSize,
			}
		}
		ok, err := stockRepo.Delete(ctx, id, label)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("talla " + label)
		}
		return nil
	})
	if err != nil {
		return dto.SizeMutationResponse{}, s.fail(span, "remove_size", err)
	}

	s.log.Info().Str("product_id", id).Str("size", label).Msg("talla eliminada")
	s.publish(ctx, EventProductsUpdated)
	return dto.SizeMutationResponse{
		Message:      "Talla eliminada exitosamente",
		ProductID:    id,
		ProductTitle: title,
		Size:         label,
	}, nil
}

// publish relee la lista canónica ya confirmada y la difunde. Un fallo aquí no revierte nada:
// la mutación ya está confirmada y los clientes se ponen al día con su próxima lectura.
func (s *MutationService) publish(ctx context.Context, kind EventKind) {
	ctx = context.WithoutCancel(ctx)
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	list, err := s.reader.ListWithSizes(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("event", string(kind)).Msg("releer catálogo para difusión")
		return
	}
	s.seq++
	s.broadcaster.Broadcast(Event{Kind: kind, Seq: s.seq, Products: toProductResponses(list)})
}

// fail clasifica el error: los de negocio pasan tal cual, el resto se envuelve como PersistenceError.
func (s *MutationService) fail(span trace.Span, op string, err error) error {
	if domain.IsBusiness(err) {
		s.log.Warn().Err(err).Str("op", op).Msg("mutación rechazada")
	} else {
		err = &domain.PersistenceError{Op: op, Err: err}
		s.log.Error().Err(err).Str("op", op).Msg("mutación revertida")
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
