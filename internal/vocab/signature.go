// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package vocab

import "fillmore-labs.com/rxguard/internal/model"

// Signature is the structural shape of a call: its argument count and the shape of its arguments.
type Signature struct {
	MinArgs, MaxArgs int
	// Callbacks requires every argument to be a callback or a single observer object.
	Callbacks bool
	// Methods narrows callbacks to function literals and method references of the class.
	Methods bool
}

var (
	// SubscribeSignature is the shape of a subscribe-equivalent call:
	// up to three callbacks (next, error, complete) or one observer.
	SubscribeSignature = Signature{MinArgs: 0, MaxArgs: 3, Callbacks: true}

	// RenamedSubscribeSignature is the shape of a subscription API with another name.
	// Only unmistakable callbacks qualify, so ordinary methods taking a reference are not mistaken for it.
	RenamedSubscribeSignature = Signature{MinArgs: 1, MaxArgs: 3, Callbacks: true, Methods: true}

	// ReleaseSignature is the shape of a release-equivalent call: no arguments.
	ReleaseSignature = Signature{MinArgs: 0, MaxArgs: 0}
)

// observerKeys are the keys of an observer object.
var observerKeys = NewSet("next", "error", "complete")

// Matches reports whether the arguments fit the signature.
func (s Signature) Matches(args []model.Expr) bool {
	if len(args) < s.MinArgs || len(args) > s.MaxArgs {
		return false
	}

	if !s.Callbacks {
		return true
	}

	if len(args) == 1 {
		if obj, ok := args[0].(*model.ObjectLit); ok {
			return observerObject(obj)
		}
	}

	callback := Callback
	if s.Methods {
		callback = MethodCallback
	}

	for _, arg := range args {
		if !callback(arg) {
			return false
		}
	}

	return true
}

// Callback reports whether e may be a callback or an observer: a function literal,
// a reference such as handler or console.log, a bound reference, or an absent argument.
func Callback(e model.Expr) bool {
	switch e := e.(type) {
	case *model.Arrow, *model.Ident, *model.Selector:
		return true

	case *model.Literal:
		return e.Value == "undefined" || e.Value == "null"

	case *model.Call:
		_, name, _, ok := model.MethodCall(e)
		return ok && name == "bind"

	default:
		return false
	}
}

// MethodCallback reports whether e is unmistakably a callback: a function literal,
// a method reference this.m, a bound reference this.m.bind(this), or an absent argument.
func MethodCallback(e model.Expr) bool {
	switch e := e.(type) {
	case *model.Arrow:
		return true

	case *model.Selector:
		_, ok := model.ThisField(e)
		return ok

	case *model.Literal:
		return e.Value == "undefined" || e.Value == "null"

	case *model.Call:
		recv, name, _, ok := model.MethodCall(e)
		if !ok || name != "bind" {
			return false
		}

		_, ok = model.ThisField(recv)

		return ok

	default:
		return false
	}
}

func observerObject(obj *model.ObjectLit) bool {
	if len(obj.Props) == 0 {
		return false
	}

	for _, p := range obj.Props {
		if !observerKeys.Has(p.Key) {
			return false
		}
	}

	return true
}

// SubscribeCall reports whether a method call is subscribe-equivalent.
//
// Calls named in [Vocabulary.Subscribe] qualify when their arguments fit.
// Other calls on a known stream receiver qualify when they take between one
// and three function literals or method references (or one observer object)
// and are not operators or otherwise recognized stream methods, so renamed
// subscription APIs are still found.
func (v *Vocabulary) SubscribeCall(name string, args []model.Expr, streamReceiver bool) bool {
	if v.Subscribe.Has(name) {
		return SubscribeSignature.Matches(args)
	}

	if !streamReceiver || !RenamedSubscribeSignature.Matches(args) {
		return false
	}

	switch {
	case v.Operators.Has(name), v.Release.Has(name), v.Emit.Has(name), v.PromiseConversions.Has(name),
		name == "pipe", name == "bind", name == "call", name == "apply":
		return false

	default:
		return true
	}
}

// ReleaseCall reports whether a method call releases a subscription handle.
// Any argument-less call on a known single handle qualifies; on other receivers
// the name must be in [Vocabulary.Release].
func (v *Vocabulary) ReleaseCall(name string, args []model.Expr, handleReceiver bool) bool {
	if !ReleaseSignature.Matches(args) {
		return false
	}

	if v.Release.Has(name) {
		return true
	}

	return handleReceiver && !v.Subscribe.Has(name) && !v.Emit.Has(name)
}
