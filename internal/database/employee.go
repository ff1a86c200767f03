package repository

import (
	"StaffDesk/entity"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveEmployee upserts an employee record keyed by uuid.
func (m *MongoDB) SaveEmployee(ctx context.Context, employee *entity.Employee) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(employeesCollection)

	filter := bson.D{{Key: "uuid", Value: employee.UUID}}
	update := bson.D{{Key: "$set", Value: employee}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}

	return nil
}

// GetEmployeeByTelegramId returns the employee registered from the given
// Telegram account, or nil.
func (m *MongoDB) GetEmployeeByTelegramId(ctx context.Context, telegramId int64) (*entity.Employee, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(employeesCollection)

	filter := bson.D{{Key: "telegram_id", Value: telegramId}}

	var employee entity.Employee
	err = collection.FindOne(ctx, filter).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &employee, nil
}

// ListEmployees returns all employees, optionally filtered by department.
func (m *MongoDB) ListEmployees(ctx context.Context, department string) ([]*entity.Employee, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(employeesCollection)

	filter := bson.D{}
	if department != "" {
		filter = bson.D{{Key: "department", Value: department}}
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var employees []*entity.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, err
	}

	return employees, nil
}
