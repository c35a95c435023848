package avroskema_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	avroskema "github.com/f-gate/avroskema"
)

func TestCache_SharesEquivalentSchemas(t *testing.T) {
	c, err := avroskema.NewCache(0)
	require.NoError(t, err)

	a, err := c.Load(`"int"`)
	require.NoError(t, err)
	b, err := c.Load(`{"type": "int"}`)
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, 1, c.Len())

	r1, err := c.Load(testRecordSchema)
	require.NoError(t, err)
	r2, err := c.Load(`{"fields": [{"type": "long", "name": "a", "default": 42}, {"name": "b", "type": "string"}], "name": "test", "type": "record"}`)
	require.NoError(t, err)
	require.Same(t, r1, r2)
	require.Equal(t, 2, c.Len())

	got, ok := c.Get(avroskema.FingerprintText(r1))
	require.True(t, ok)
	require.Same(t, r1, got)

	_, ok = c.Get(0)
	require.False(t, ok)
}

func TestCache_RejectsInvalid(t *testing.T) {
	c, err := avroskema.NewCache(4)
	require.NoError(t, err)
	_, err = c.Load(`{"type": "panther"}`)
	require.ErrorIs(t, err, avroskema.ErrSchemaValidation)
	require.Zero(t, c.Len())
}

func TestCache_Evicts(t *testing.T) {
	c, err := avroskema.NewCache(1)
	require.NoError(t, err)
	_, err = c.Load(`"int"`)
	require.NoError(t, err)
	_, err = c.Load(`"long"`)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	_, ok := c.Get(avroskema.FingerprintText(avroskema.Primitive(avroskema.TypeInt)))
	require.False(t, ok)
}

func TestCache_HonorsLimits(t *testing.T) {
	c, err := avroskema.NewCache(4)
	require.NoError(t, err)
	_, err = c.Load(testRecordSchema)
	require.NoError(t, err)

	_, err = c.Load(testRecordSchema, avroskema.ParseOpt{MaxBytes: 8})
	require.ErrorIs(t, err, avroskema.ErrSchemaValidation)
	_, err = c.Load(testRecordSchema, avroskema.ParseOpt{MaxDepth: 1})
	require.ErrorIs(t, err, avroskema.ErrSchemaValidation)
}

func TestCache_LoadAgreesWithGet(t *testing.T) {
	c, err := avroskema.NewCache(1)
	require.NoError(t, err)
	a, err := c.Load(`"int"`)
	require.NoError(t, err)
	_, err = c.Load(`"long"`)
	require.NoError(t, err)

	again, err := c.Load(`"int"`)
	require.NoError(t, err)
	require.Equal(t, a.String(), again.String())
	got, ok := c.Get(avroskema.FingerprintText(again))
	require.True(t, ok)
	require.Same(t, again, got)
}

func TestCache_Concurrent(t *testing.T) {
	c, err := avroskema.NewCache(8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	got := make([]avroskema.Schema, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.Load(testRecordSchema)
			if err == nil {
				got[i] = s
			}
		}(i)
	}
	wg.Wait()
	for _, s := range got {
		require.NotNil(t, s)
		require.Equal(t, got[0].String(), s.String())
	}
}
