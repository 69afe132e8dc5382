package object

import "testing"

type widget struct {
	class *Descriptor
	power float64
	label string
}

func (w *widget) Class() *Descriptor { return w.class }

func newWidgetFactory() (*Factory, *Descriptor, *Descriptor) {
	f := NewFactory("widgets")
	base := f.Register("Widget", nil, func() Object { return &widget{} },
		NewAttribute("power", AttrSerializable|AttrCloneable,
			func(o Object) string { return Float64ToString(o.(*widget).power) },
			func(o Object, s string) error {
				v, err := Float64FromString(s)
				if err != nil {
					return err
				}
				o.(*widget).power = v
				return nil
			},
			func(src, dst Object) { dst.(*widget).power = src.(*widget).power },
		),
	)
	derived := f.Register("GlowWidget", base, func() Object { return &widget{} },
		NewAttribute("label", AttrSerializable|AttrCloneable,
			func(o Object) string { return o.(*widget).label },
			func(o Object, s string) error { o.(*widget).label = s; return nil },
			func(src, dst Object) { dst.(*widget).label = src.(*widget).label },
		),
	)
	return f, base, derived
}

func TestFactoryCreateUnknownReturnsNil(t *testing.T) {
	f, _, _ := newWidgetFactory()
	if f.CreateByName("DoesNotExist") != nil {
		t.Fatal("expected nil for unknown class name")
	}
}

func TestIsSubclassOf(t *testing.T) {
	_, base, derived := newWidgetFactory()
	if !derived.IsSubclassOf(base) {
		t.Error("GlowWidget should be a subclass of Widget")
	}
	if base.IsSubclassOf(derived) {
		t.Error("Widget should not be a subclass of GlowWidget")
	}
}

func TestCloneAttributesRootToLeaf(t *testing.T) {
	f, _, derived := newWidgetFactory()
	src := derived.construct().(*widget)
	src.class = derived
	src.power = 42.5
	src.label = "lantern"

	dst := f.CreateByID(derived.ID).(*widget)
	dst.class = derived
	CloneAttributes(src, dst)

	if dst.power != 42.5 || dst.label != "lantern" {
		t.Errorf("clone got %+v", dst)
	}
}

func TestAttributeRoundTripPreservesBits(t *testing.T) {
	inst := &widget{}
	attr := NewAttribute("power", AttrSerializable,
		func(o Object) string { return Float64ToString(o.(*widget).power) },
		func(o Object, s string) error {
			v, err := Float64FromString(s)
			if err != nil {
				return err
			}
			o.(*widget).power = v
			return nil
		}, nil)
	inst.power = 1.0 / 3.0
	encoded := attr.Get(inst)
	if err := attr.Set(inst, encoded); err != nil {
		t.Fatal(err)
	}
	if !BitsEqual(inst.power, 1.0/3.0) {
		t.Errorf("round trip lost precision: %v", inst.power)
	}
}
