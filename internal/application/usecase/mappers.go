package usecase

import (
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
)

func toOrderResponse(o *entity.Order, names map[int64]string) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:            o.ID,
		CompanyID:     o.CompanyID,
		Title:         o.Title,
		Description:   o.Description,
		Status:        string(o.Status),
		StatusLabel:   o.Status.Label(),
		Priority:      string(o.Priority),
		PriorityLabel: o.Priority.Label(),
		Location:      o.Location,
		ClientID:      o.ClientID,
		AssignedTo:    o.AssignedTo,
		Comments:      make([]dto.CommentResponse, 0, len(o.Comments)),
		Photos:        toPhotoResponses(o.Photos),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		CompletedAt:   o.CompletedAt,
	}
	if o.AssignedTo != nil {
		out.AssignedToName = names[*o.AssignedTo]
	}
	for _, c := range o.Comments {
		out.Comments = append(out.Comments, dto.CommentResponse{
			ID:        c.ID,
			UserID:    c.UserID,
			UserName:  nameOr(names, c.UserID, "Usuario desconocido"),
			Text:      c.Text,
			Timestamp: c.Timestamp,
		})
	}
	return out
}

func toPhotoResponses(in []entity.Photo) []dto.PhotoResponse {
	out := make([]dto.PhotoResponse, 0, len(in))
	for _, p := range in {
		out = append(out, dto.PhotoResponse{ID: p.ID, URL: p.URL, Name: p.Name})
	}
	return out
}

func toProductResponse(p *entity.Product, threshold int) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Code:        p.Code,
		Description: p.Description,
		Quantity:    p.Quantity,
		Area:        p.Area,
		Supplier:    p.Supplier,
		LowStock:    p.IsLowStock(threshold),
		Photos:      toPhotoResponses(p.Photos),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Area:      u.Area,
		Location:  u.Location,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{ID: c.ID, Name: c.Name, Address: c.Address, Phone: c.Phone, Email: c.Email}
}

func nameOr(names map[int64]string, id int64, fallback string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fallback
}
