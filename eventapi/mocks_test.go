// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package eventapi

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gamers-hell/magpie/model"
	"github.com/gamers-hell/magpie/snapshot"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Events(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]model.Event)
	return events, args.Error(1)
}

func (m *mockService) Refresh(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]model.Event)
	return events, args.Error(1)
}

func (m *mockService) SnapshotInfo(ctx context.Context) (snapshot.Info, error) {
	args := m.Called(ctx)
	info, _ := args.Get(0).(snapshot.Info)
	return info, args.Error(1)
}

func (m *mockService) ClearSnapshot(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
