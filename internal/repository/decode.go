package repository

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"stats-dashboard-service/internal/model"
)

// Los documentos vienen de sistemas externos (y de una migración desde
// Firestore), así que fechas y totales se leen como RawValue y se
// interpretan a mano: lo que no se entiende queda en cero / inválido.

type orderDocument struct {
	ID        bson.RawValue `bson:"_id"`
	Date      bson.RawValue `bson:"date"`
	Status    string        `bson:"status"`
	LastState string        `bson:"lastState"`
	Total     bson.RawValue `bson:"total"`
	Channel   string        `bson:"canalVenta"`
	ClientID  string        `bson:"clienteId"`
	IPAddress string        `bson:"ipAddress"`
	Number    bson.RawValue `bson:"numberOrder"`
	Note      string        `bson:"note"`
}

type trackingDocument struct {
	ID        bson.RawValue      `bson:"_id"`
	DateTime  bson.RawValue      `bson:"dateTime"`
	IP        string             `bson:"ip"`
	Location  string             `bson:"location"`
	IsLogged  bool               `bson:"isLogged"`
	IsMobile  bool               `bson:"isMobile"`
	UserAgent string             `bson:"userAgent"`
	User      *model.TrackedUser `bson:"user"`
}

type userDocument struct {
	ID       bson.RawValue       `bson:"_id"`
	Email    string              `bson:"email"`
	Shipping *model.ShippingData `bson:"datosEnvio"`
}

func decodeOrder(raw bson.Raw) (model.Order, error) {
	var d orderDocument
	if err := bson.Unmarshal(raw, &d); err != nil {
		return model.Order{}, err
	}
	number, _ := numberFrom(d.Number)
	return model.Order{
		ID:        idString(d.ID),
		Date:      timeFrom(d.Date),
		Status:    d.Status,
		LastState: d.LastState,
		Total:     decimalFrom(d.Total),
		Channel:   d.Channel,
		ClientID:  d.ClientID,
		IPAddress: d.IPAddress,
		Number:    number.IntPart(),
		Note:      d.Note,
	}, nil
}

func decodeTrackingEvent(raw bson.Raw) (model.TrackingEvent, error) {
	var d trackingDocument
	if err := bson.Unmarshal(raw, &d); err != nil {
		return model.TrackingEvent{}, err
	}
	return model.TrackingEvent{
		ID:        idString(d.ID),
		Timestamp: timeFrom(d.DateTime),
		IP:        d.IP,
		Location:  d.Location,
		IsLogged:  d.IsLogged,
		IsMobile:  d.IsMobile,
		UserAgent: d.UserAgent,
		User:      d.User,
	}, nil
}

func decodeUser(raw bson.Raw) (model.User, error) {
	var d userDocument
	if err := bson.Unmarshal(raw, &d); err != nil {
		return model.User{}, err
	}
	return model.User{ID: idString(d.ID), Email: d.Email, Shipping: d.Shipping}, nil
}

func idString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.String:
		return v.StringValue()
	case 0:
		return ""
	default:
		return v.String()
	}
}

// timeFrom acepta datetime, timestamp, strings RFC 3339 y el formato
// {seconds, nanoseconds} / {_seconds, _nanoseconds} de los exports de Firestore.
func timeFrom(v bson.RawValue) time.Time {
	switch v.Type {
	case bsontype.DateTime:
		return v.Time().UTC()
	case bsontype.Timestamp:
		sec, _ := v.Timestamp()
		return time.Unix(int64(sec), 0).UTC()
	case bsontype.String:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.StringValue()))
		if err != nil {
			return time.Time{}
		}
		return t.UTC()
	case bsontype.EmbeddedDocument:
		doc := v.Document()
		for _, prefix := range []string{"", "_"} {
			sec, ok := numberFrom(doc.Lookup(prefix + "seconds"))
			if !ok {
				continue
			}
			nanos, _ := numberFrom(doc.Lookup(prefix + "nanoseconds"))
			return time.Unix(sec.IntPart(), nanos.IntPart()).UTC()
		}
	}
	return time.Time{}
}

func decimalFrom(v bson.RawValue) decimal.NullDecimal {
	d, ok := numberFrom(v)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// numberFrom solo acepta tipos numéricos: un "100" guardado como string no cuenta.
func numberFrom(v bson.RawValue) (decimal.Decimal, bool) {
	switch v.Type {
	case bsontype.Double:
		f := v.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(f), true
	case bsontype.Int32:
		return decimal.NewFromInt32(v.Int32()), true
	case bsontype.Int64:
		return decimal.NewFromInt(v.Int64()), true
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(v.Decimal128().String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}
