// Package dynamo provides a DynamoDB-backed descriptor element.
//
// One Store binds a DynamoDB table; elements minted from it carry only
// their identity and resolve vectors on demand. Batched retrieval goes
// through the BulkVectorProvider capability, reading whole type groups
// with BatchGetItem (100-key pages, unprocessed keys retried) instead of
// one GetItem per element.
//
// Vectors are stored as a binary attribute holding little-endian IEEE
// 754 float32 components.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	store := dynamo.NewStore(dynamodb.NewFromConfig(cfg), "descgo-descriptors")
//
//	elem := store.Element("cnn-pool5", "img-0001")
//	if err := elem.SetVector(ctx, vec); err != nil {
//		log.Fatal(err)
//	}
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name descgo-descriptors \
//	  --attribute-definitions AttributeName=uuid,AttributeType=S \
//	  --key-schema AttributeName=uuid,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
//
// Elements gob-encode identity and table binding only; a decoded
// element reattaches to a store registered for its table name in this
// process. Unlike the SQLite element there is no credential-free reopen
// path, so the table must have been bound with NewStore first.
package dynamo
