package catalog

import (
	"context"
	"errors"
	"io"

	"github.com/ariefcatur/go-marketplace/internal/events"
	kafkax "github.com/ariefcatur/go-marketplace/internal/kafka"
	"github.com/rs/zerolog"
)

type ListingStore interface {
	ListAll(ctx context.Context) ([]Listing, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Listing, error)
	Get(ctx context.Context, id string) (Listing, error)
	Create(ctx context.Context, l Listing) (Listing, error)
	Update(ctx context.Context, l Listing, sc Scope) (Listing, error)
	SetActive(ctx context.Context, id string, active bool, sc Scope) (Listing, error)
	Delete(ctx context.Context, id string, sc Scope) (string, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, ownerID, filename string, r io.Reader) (string, error)
}

// Image is an optional file attached to a listing save.
type Image struct {
	Filename string
	Body     io.Reader
}

const NoticeImageSkipped = "Image upload failed; the listing was saved without a new image."

// Manager applies seller and admin mutations to listings and announces them.
type Manager struct {
	Store    ListingStore
	Images   ImageUploader
	Events   kafkax.Publisher
	Producer string
	Log      zerolog.Logger
}

// SellerStats summarises a seller's dashboard.
type SellerStats struct {
	Total      int     `json:"totalListings"`
	Active     int     `json:"activeListings"`
	TotalValue float64 `json:"totalValue"`
}

func Stats(ls []Listing) SellerStats {
	st := SellerStats{Total: len(ls)}
	for _, l := range ls {
		if l.Active {
			st.Active++
		}
		st.TotalValue += l.Price
	}
	return st
}

func (m *Manager) SellerListings(ctx context.Context, sellerID string) ([]Listing, error) {
	return m.Store.ListBySeller(ctx, sellerID)
}

func (m *Manager) AllListings(ctx context.Context) ([]Listing, error) {
	return m.Store.ListAll(ctx)
}

// Create validates and stores a new listing owned by sellerID. A failed image
// upload does not abort the save; the returned notice says so.
func (m *Manager) Create(ctx context.Context, sellerID, traceID string, in ListingInput, img *Image) (Listing, string, error) {
	if err := in.Validate(); err != nil {
		return Listing{}, "", err
	}
	l := Listing{SellerID: sellerID}
	in.apply(&l)
	notice := m.upload(ctx, sellerID, img, &l)

	out, err := m.Store.Create(ctx, l)
	if err != nil {
		return Listing{}, "", err
	}
	m.announce(out.ID, out.SellerID, sellerID, traceID, events.ChangeCreated)
	return out, notice, nil
}

// Update keeps the current image unless a new one uploads successfully.
func (m *Manager) Update(ctx context.Context, id, traceID string, sc Scope, in ListingInput, img *Image) (Listing, string, error) {
	if err := in.Validate(); err != nil {
		return Listing{}, "", err
	}
	cur, err := m.Store.Get(ctx, id)
	if err != nil {
		return Listing{}, "", err
	}
	if !sc.Admin && cur.SellerID != sc.SellerID {
		return Listing{}, "", ErrNotFound
	}
	in.apply(&cur)
	notice := m.upload(ctx, cur.SellerID, img, &cur)

	out, err := m.Store.Update(ctx, cur, sc)
	if err != nil {
		return Listing{}, "", err
	}
	m.announce(out.ID, out.SellerID, sc.SellerID, traceID, events.ChangeUpdated)
	return out, notice, nil
}

func (m *Manager) SetActive(ctx context.Context, id, traceID string, sc Scope, active bool) (Listing, error) {
	out, err := m.Store.SetActive(ctx, id, active, sc)
	if err != nil {
		return Listing{}, err
	}
	change := events.ChangeDeactivated
	if active {
		change = events.ChangeActivated
	}
	m.announce(out.ID, out.SellerID, sc.SellerID, traceID, change)
	return out, nil
}

func (m *Manager) Delete(ctx context.Context, id, traceID string, sc Scope) error {
	sellerID, err := m.Store.Delete(ctx, id, sc)
	if err != nil {
		return err
	}
	m.announce(id, sellerID, sc.SellerID, traceID, events.ChangeDeleted)
	return nil
}

func (m *Manager) upload(ctx context.Context, ownerID string, img *Image, l *Listing) string {
	if img == nil || m.Images == nil {
		return ""
	}
	url, err := m.Images.Upload(ctx, ownerID, img.Filename, img.Body)
	if err != nil {
		m.Log.Warn().Err(err).Str("seller_id", ownerID).Msg("listing image upload")
		return NoticeImageSkipped
	}
	l.ImageURL = &url
	return ""
}

func (m *Manager) announce(productID, sellerID, actorID, traceID, change string) {
	if m.Events == nil {
		return
	}
	env := kafkax.NewEnvelope(events.EventListingChanged, m.Producer, traceID, productID,
		events.ListingChangedPayload{ProductID: productID, SellerID: sellerID, ActorID: actorID, Change: change})
	kafkax.PublishEnvelope(m.Events, productID, env)
}

// IsNotFound reports whether err means the listing is absent or out of scope.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
