package repository

import (
	"StaffDesk/bot/forms"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveFormState persists a form session, one document per (user, form) pair.
func (m *MongoDB) SaveFormState(ctx context.Context, state *forms.State) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(formStatesCollection)

	filter := bson.D{
		{Key: "user_id", Value: state.UserID},
		{Key: "form_id", Value: state.FormID},
	}
	update := bson.D{{Key: "$set", Value: state}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}

	return nil
}

// LoadFormState retrieves a user's session for one form, or nil.
func (m *MongoDB) LoadFormState(ctx context.Context, userID int64, formID string) (*forms.State, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(formStatesCollection)

	filter := bson.D{
		{Key: "user_id", Value: userID},
		{Key: "form_id", Value: formID},
	}

	var state forms.State
	err = collection.FindOne(ctx, filter).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &state, nil
}

// DeleteFormState removes a user's session for one form.
func (m *MongoDB) DeleteFormState(ctx context.Context, userID int64, formID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(formStatesCollection)

	filter := bson.D{
		{Key: "user_id", Value: userID},
		{Key: "form_id", Value: formID},
	}

	_, err = collection.DeleteOne(ctx, filter)
	return err
}

// ClearFormStates removes every session of a user across all forms.
func (m *MongoDB) ClearFormStates(ctx context.Context, userID int64) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(formStatesCollection)

	filter := bson.D{{Key: "user_id", Value: userID}}

	_, err = collection.DeleteMany(ctx, filter)
	return err
}

// ActiveFormStates lists a user's non-complete sessions.
func (m *MongoDB) ActiveFormStates(ctx context.Context, userID int64) ([]*forms.State, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(formStatesCollection)

	filter := bson.D{
		{Key: "user_id", Value: userID},
		{Key: "is_complete", Value: false},
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var states []*forms.State
	if err := cursor.All(ctx, &states); err != nil {
		return nil, err
	}

	return states, nil
}
