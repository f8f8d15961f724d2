package websocket

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// shopWatcher holds one change stream per watched collection for a single
// shop subscription. All streams share a context so stop() tears down the
// whole set at once.
type shopWatcher struct {
	hub        *Hub
	client     *Client
	shopID     primitive.ObjectID
	generation int
	ctx        context.Context
	cancel     context.CancelFunc
}

func newShopWatcher(hub *Hub, client *Client, shopID primitive.ObjectID, generation int) *shopWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &shopWatcher{
		hub:        hub,
		client:     client,
		shopID:     shopID,
		generation: generation,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (w *shopWatcher) start() {
	w.client.Enqueue(w.generation, Event{
		Type:   EventSubscribed,
		ShopID: w.shopID.Hex(),
	})

	// Push the current state immediately, then keep it fresh from the
	// change streams.
	for _, name := range []string{"products", "categories", "departments"} {
		w.pushSnapshot(name)
		go w.watch(name)
	}
}

func (w *shopWatcher) stop() {
	w.cancel()
}

// watch tails a collection's change stream and re-fetches the shop's full
// list whenever anything relevant happens. Deletes carry no fullDocument, so
// they pass the filter unconditionally; the snapshot fetch is shop-scoped
// either way.
func (w *shopWatcher) watch(collection string) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "fullDocument.shopId", Value: w.shopID}},
			bson.D{{Key: "operationType", Value: "delete"}},
		}}}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := w.hub.db.Collection(collection).Watch(w.ctx, pipeline, opts)
	if err != nil {
		if w.ctx.Err() == nil {
			log.Printf("Failed to open change stream on %s: %v", collection, err)
			w.client.Enqueue(w.generation, Event{
				Type:       EventError,
				Collection: collection,
				Message:    "live updates unavailable for " + collection,
			})
		}
		return
	}
	defer stream.Close(context.Background())

	for stream.Next(w.ctx) {
		w.pushSnapshot(collection)
	}
	if err := stream.Err(); err != nil && w.ctx.Err() == nil {
		log.Printf("Change stream on %s ended: %v", collection, err)
	}
}

func (w *shopWatcher) pushSnapshot(collection string) {
	ctx, cancel := context.WithTimeout(w.ctx, 10*time.Second)
	defer cancel()

	var (
		data interface{}
		err  error
	)
	switch collection {
	case "products":
		data, err = w.hub.snapshots.Products.FetchByShop(ctx, w.shopID)
	case "categories":
		data, err = w.hub.snapshots.Categories.FetchByShop(ctx, w.shopID, w.client.UserID)
	case "departments":
		data, err = w.hub.snapshots.Departments.FetchByShop(ctx, w.shopID, w.client.UserID)
	default:
		return
	}
	if err != nil {
		if w.ctx.Err() == nil {
			log.Printf("Failed to fetch %s snapshot for shop %s: %v", collection, w.shopID.Hex(), err)
		}
		return
	}

	w.client.Enqueue(w.generation, Event{
		Type:       EventSnapshot,
		Collection: collection,
		ShopID:     w.shopID.Hex(),
		Data:       data,
	})
}
